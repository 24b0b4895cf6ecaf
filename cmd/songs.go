package cmd

import (
	"fmt"
	"time"

	"github.com/derickschaefer/streamify/internal/dashboard"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/table"
	"github.com/spf13/cobra"
)

var songsPick int

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Show the top songs for the selected range",
	Long: `Show the ranked top songs for the selected range.

--pick N selects the Nth song (song and artist together, as clicking a bar
does) and lists the recent streams matching it beneath the ranking.`,
	Example: `  streamify songs
  streamify songs --range 7d --pick 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		c, snap, err := openSession(cmd.Context(), deps, drillDown{})
		if err != nil {
			return err
		}
		result := newResult(deps, model.KindTopSongs, "songs", snap.Range, snap.TopSongs, len(snap.TopSongs), start)
		if err := emit(deps, result); err != nil {
			return err
		}
		if songsPick == 0 {
			return nil
		}
		if songsPick < 0 || songsPick > len(snap.TopSongs) {
			return fmt.Errorf("--pick %d out of range (1-%d)", songsPick, len(snap.TopSongs))
		}

		picked := snap.TopSongs[songsPick-1]
		c.SelectSong(picked.Name, picked.Artist)
		v := table.NewView()
		if err := v.SetPageSize(deps.Config.PageSize); err != nil {
			return err
		}
		page := v.Render(dashboard.Filter(snap, c.State()).RecentStreams)
		return emit(deps, newResult(deps, model.KindStreams, "songs --pick", snap.Range, page, len(page.Rows), start))
	},
}

func init() {
	rootCmd.AddCommand(songsCmd)
	songsCmd.Flags().IntVar(&songsPick, "pick", 0, "select the Nth top song and list its streams")
}
