package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/clouddrop/clouddrop/clientcli"
)

var (
	version = "dev"

	cfgFile     string
	server      string
	secret      string
	profileName string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "clouddrop-cli",
	Version: version,
	Short:   "Client for CloudDrop file sharing",
	Long: `CloudDrop CLI - Client for a CloudDrop file sharing server

The server groups uploads into a date-based timeline and assigns each
file a key of the form <YYYY-MM-DD>/<millis>-<filename>.

Commands:
  upload:    Upload files (the server assigns the key)
  download:  Download an object by key
  delete:    Delete objects by key
  timeline:  Show the date-grouped object listing
  login:     Verify the configured secret against the server
  configure: Manage server profiles

Connection settings resolve in order: profile from the config file,
then CLOUDDROP_* environment variables, then flags.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.clouddrop/config.yaml, env: CLOUDDROP_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:8080, env: CLOUDDROP_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&secret, "secret", "k", "", "shared secret (env: CLOUDDROP_SECRET)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: CLOUDDROP_PROFILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

// exitError carries an exit code without printing anything extra;
// the command has already formatted its own output.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// getConfigPath returns the config file path from the flag, the
// environment, or the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from the profile file, env vars, and flags
// (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Resolve a profile from the config file.
	configPath := getConfigPath()
	if configPath != "" {
		fileCfg, err := clientcli.LoadConfigFile(configPath)
		if err != nil {
			// Only error if the user explicitly pointed at a config file.
			// A missing default config just means no profiles yet.
			if cfgFile != "" {
				return nil, err
			}
		} else {
			name := profileName
			if name == "" {
				name = clientcli.ProfileFromEnv()
			}
			profile, profileErr := fileCfg.GetProfile(name)
			if profileErr != nil {
				// A named profile that does not exist is an error;
				// an empty config file is not.
				if name != "" {
					return nil, profileErr
				}
			} else {
				configs = append(configs, clientcli.ConfigFromProfile(profile))
			}
		}
	}

	// 2. Environment variables.
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Flags.
	configs = append(configs, &clientcli.Config{
		Endpoint: server,
		Secret:   secret,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateWithAuth(); err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}
