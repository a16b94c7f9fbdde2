package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

const playersPath = "/api/players"

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerColumnCmd())
	cmd.AddCommand(newPlayerSearchCmd())
	cmd.AddCommand(newPlayerFilterCmd("like", "Players whose firstname contains VALUE", "/firstnames/like", "firstname"))
	cmd.AddCommand(newPlayerFilterCmd("begin", "Players whose firstname starts with VALUE", "/firstnames/begin", "firstname"))
	cmd.AddCommand(newPlayerFilterCmd("after", "Players whose last game is after VALUE (YYYY-MM-DD)", "/datelastgames/sup", "datelastgame"))
	cmd.AddCommand(newPlayerDescCmd())
	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerToggleCmd())
	cmd.AddCommand(newPlayerDeleteCmd())
	cmd.AddCommand(newPlayerPurgeCmd())

	return cmd
}

func printPlayers(path string) error {
	var result []Player
	if err := client.Get(path, &result); err != nil {
		return err
	}

	NewOutput(cfg.Output).Print(result)
	return nil
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlayers(playersPath)
		},
	}
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a single player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get(playerPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerColumnCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "column NAME",
		Short:     "List one column for every player",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"id", "firstname", "isok", "nbgame", "datelastgame"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []map[string]any
			if err := client.Get(playersPath+"/"+url.PathEscape(args[0])+"s", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search FIELD=VALUE...",
		Short: "Players matching every FIELD=VALUE pair",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := searchQuery(args)
			if err != nil {
				return err
			}
			return printPlayers(playersPath + "/search?" + q)
		},
	}
}

// searchQuery encodes pairs in the order given, since the server binds
// values in parameter order
func searchQuery(pairs []string) (string, error) {
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return "", fmt.Errorf("expected FIELD=VALUE, got %q", pair)
		}
		parts = append(parts, url.QueryEscape(field)+"="+url.QueryEscape(value))
	}
	return strings.Join(parts, "&"), nil
}

func newPlayerFilterCmd(use, short, path, param string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " VALUE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{param: {args[0]}}
			return printPlayers(playersPath + path + "?" + q.Encode())
		},
	}
}

func newPlayerDescCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "desc",
		Short: "List players by firstname, descending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlayers(playersPath + "/desc")
		},
	}
}

// playerFlags are the writable fields, sent as given so the server
// reports every invalid one
type playerFlags struct {
	firstname, isok, nbgame, date string
}

func (f *playerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstname, "firstname", "", "First name (required)")
	cmd.Flags().StringVar(&f.isok, "isok", "true", "Active flag")
	cmd.Flags().StringVar(&f.nbgame, "nbgame", "0", "Number of games played")
	cmd.Flags().StringVar(&f.date, "date", "", "Date of the last game, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("firstname")
	_ = cmd.MarkFlagRequired("date")
}

func (f *playerFlags) body() map[string]string {
	return map[string]string{
		"firstname":    f.firstname,
		"isok":         f.isok,
		"nbgame":       f.nbgame,
		"datelastgame": f.date,
	}
}

func newPlayerCreateCmd() *cobra.Command {
	var flags playerFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Post(playersPath, flags.body(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newPlayerUpdateCmd() *cobra.Command {
	var flags playerFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a player's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Put(playerPath(args[0]), flags.body(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newPlayerToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a player's isok flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Put(playerPath(args[0])+"/toogle", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeleteResult
			if err := client.Delete(playerPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every inactive player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeleteResult
			if err := client.Delete(playersPath+"/isok0", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

// playerPath does not check id is numeric; the server rejects bad ids
func playerPath(id string) string {
	return playersPath + "/" + url.PathEscape(id)
}
