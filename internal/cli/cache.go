package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/cache"
	"github.com/greenledger/pcfcalc/internal/config"
)

// NewCacheInfoCmd creates the "cache info" command.
func NewCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the material sheet cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			w := cmd.OutOrStdout()
			if !cfg.Cache.Enabled {
				_, err := fmt.Fprintln(w, "Cache is disabled (cache.enabled=false)")
				return err
			}
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			st, err := store.Stats()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "Directory: %s\n", store.Directory())
			_, _ = fmt.Fprintf(w, "TTL: %s\n", cache.FormatDuration(time.Duration(store.TTL())*time.Second))
			_, err = fmt.Fprintf(w, "Entries: %d (%d bytes)\n", st.Entries, st.Bytes)
			return err
		},
	}
}

// NewCacheClearCmd creates the "cache clear" command. With --expired only
// entries past their TTL are removed.
func NewCacheClearCmd() *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached material sheets",
		Example: `  pcfcalc cache clear
  pcfcalc cache clear --expired`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			remove := store.Clear
			if expiredOnly {
				remove = store.CleanupExpired
			}
			removed, err := remove()
			if errors.Is(err, cache.ErrDisabled) {
				return errors.New("cache is disabled (cache.enabled=false)")
			}
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d cache entr%s\n", removed, plural(removed, "y", "ies"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")
	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
