package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bleep/internal/swears"
)

var (
	listsAddID     string
	listsExportFmt string
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage swear lists",
	Long: `Lists manages the word lists the clean command censors against.

The bundled default list is always available. Custom lists are plain-text
files (one word per line, # comments, optional word|replacement pairs) or
JSON files kept under the configured list directory.`,
}

var listsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show the available swear lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := newManager()

		entries, err := os.ReadDir(cfg.SwearListDir)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("list directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isListFile(entry.Name()) {
				continue
			}
			id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			if _, err := manager.LoadCustom(filepath.Join(cfg.SwearListDir, entry.Name()), id); err != nil {
				logger.Warnw("Skipping unreadable list", "file", entry.Name(), "error", err)
			}
		}

		for _, id := range manager.Available() {
			set, err := manager.Get(id)
			if err != nil {
				return err
			}
			origin := "builtin"
			if id != swears.DefaultListID {
				origin = string(set.Source)
			}
			fmt.Printf("%-20s %6d words  (%s)\n", id, set.Len(), origin)
		}
		return nil
	},
}

var listsAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Import a swear list file into the list directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := newManager()

		id := listsAddID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		set, err := manager.LoadCustom(args[0], id)
		if err != nil {
			return err
		}

		dest := filepath.Join(cfg.SwearListDir, id+".txt")
		if err := manager.Save(set.Words(), dest, swears.FormatPlainText); err != nil {
			return err
		}

		fmt.Printf("Imported %q (%d words) to %s\n", id, set.Len(), dest)
		return nil
	},
}

var listsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the normalized words of a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadListByID(newManager(), args[0])
		if err != nil {
			return err
		}
		for _, w := range set.Words() {
			if r, ok := set.Replacement(w); ok {
				fmt.Printf("%s|%s\n", w, r)
			} else {
				fmt.Println(w)
			}
		}
		return nil
	},
}

var listsExportCmd = &cobra.Command{
	Use:   "export [id] [destination]",
	Short: "Write a list to a file in text or JSON form",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := newManager()
		set, err := loadListByID(manager, args[0])
		if err != nil {
			return err
		}

		format := swears.FormatPlainText
		if strings.EqualFold(listsExportFmt, "json") {
			format = swears.FormatJSON
		}

		if err := manager.Save(set.Words(), args[1], format); err != nil {
			return err
		}
		fmt.Printf("Exported %q (%d words) to %s\n", set.ID, set.Len(), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listsCmd)
	listsCmd.AddCommand(listsLsCmd)
	listsCmd.AddCommand(listsAddCmd)
	listsCmd.AddCommand(listsShowCmd)
	listsCmd.AddCommand(listsExportCmd)

	listsAddCmd.Flags().StringVar(&listsAddID, "id", "", "Identifier for the imported list (default: filename)")
	listsExportCmd.Flags().StringVar(&listsExportFmt, "format", "text", "Export format (text, json)")
}

func newManager() *swears.Manager {
	m := swears.NewManager(time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)

	// a default.txt/default.json in the list directory overrides the builtin
	for _, ext := range []string{".txt", ".json"} {
		path := filepath.Join(cfg.SwearListDir, swears.DefaultListID+ext)
		if _, err := os.Stat(path); err == nil {
			m.SetDefaultPath(path)
			break
		}
	}
	return m
}

// loadListByID resolves an identifier to the builtin list or a file under the
// configured list directory.
func loadListByID(manager *swears.Manager, id string) (*swears.Set, error) {
	if id == swears.DefaultListID {
		return manager.LoadDefault()
	}

	for _, ext := range []string{".txt", ".json"} {
		path := filepath.Join(cfg.SwearListDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return manager.LoadCustom(path, id)
		}
	}
	return nil, fmt.Errorf("unknown swear list %q (looked in %s)", id, cfg.SwearListDir)
}

func isListFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".json":
		return true
	}
	return false
}
