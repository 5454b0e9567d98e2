package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/booksmcp/booksmcp/internal/config"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactively configure Zoho Books credentials",
		Long: `Prompts for OAuth credentials and writes them to the config file.

Create a self client at https://api-console.zoho.com to obtain the
client ID, client secret, and refresh token. The refresh token needs
the ZohoBooks.fullaccess.all scope.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()

			// Start from the existing config so a partial rerun keeps
			// previously entered values.
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			in := bufio.NewReader(os.Stdin)

			fmt.Printf("Writing configuration to %s\n", path)
			fmt.Println("Press Enter to keep the current value where one is shown.")
			fmt.Println()

			cfg.ClientID = promptString(in, "Client ID", cfg.ClientID)
			if v, err := promptSecret("Client Secret", cfg.ClientSecret); err != nil {
				return err
			} else {
				cfg.ClientSecret = v
			}
			if v, err := promptSecret("Refresh Token", cfg.RefreshToken); err != nil {
				return err
			} else {
				cfg.RefreshToken = v
			}
			cfg.OrganizationID = promptString(in, "Organization ID", cfg.OrganizationID)
			cfg.Region = strings.ToUpper(promptString(in, "Region (US, EU, IN, AU, JP, CN, CA)", cfg.Region))

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Printf("\nSaved %s\n", path)
			fmt.Println("Run 'booksmcp check' to verify the credentials.")
			return nil
		},
	}
}

func promptString(in *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := in.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

// promptSecret reads without echo so secrets stay off the terminal
// scrollback. Falls back to keeping the current value on empty input.
func promptSecret(label, current string) (string, error) {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, mask(current))
	} else {
		fmt.Printf("%s: ", label)
	}
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", label, err)
	}
	v := strings.TrimSpace(string(raw))
	if v == "" {
		return current, nil
	}
	return v, nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
