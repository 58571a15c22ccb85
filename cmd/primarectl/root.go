package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"primarectl/internal/config"
	"primarectl/internal/logging"
	"primarectl/internal/mixer"
	"primarectl/internal/primare"
	"primarectl/internal/protocol"
	"primarectl/internal/serialport"
)

var (
	cfgPath   string
	portPath  string
	verbosity int
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "primarectl",
		Short: "Control a Primare amplifier over RS-232",
		Long: "primarectl drives the volume, mute, input source and power of a " +
			"Primare I22/I32 amplifier attached to a serial port.",
		SilenceUsage: true,
	}
	addGlobalFlags(cmd.PersistentFlags())
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newVolumeCmd(),
		newMuteCmd(),
		newSourceCmd(),
		newPowerCmd(),
		newStatusCmd(),
		newApplyCmd(),
		newShellCmd(),
	)
	return cmd
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfgPath, "config", "", "path to primarectl.toml (default "+defaultConfigPath()+")")
	fs.StringVar(&portPath, "port", "", "serial device path override")
	fs.CountVarP(&verbosity, "verbose", "v", "increase log detail (-v, -vv)")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "primarectl.toml"
	}
	return filepath.Join(home, ".config", "primarectl", "primarectl.toml")
}

func loadConfig() (config.Config, error) {
	path := cfgPath
	if path == "" {
		path = defaultConfigPath()
		if _, err := os.Stat(path); err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// connect opens the configured port and hands back a ready engine. Verbose
// mode is enabled first so the amplifier acknowledges everything that
// follows.
func connect() (*primare.Talker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ep := cfg.Endpoint()
	if portPath != "" {
		ep.Path = portPath
	}
	port, err := serialport.Open(ep, protocol.Complete)
	if err != nil {
		return nil, err
	}
	talker := primare.NewTalker(port, primare.DefaultScale())
	if err := talker.SetVerbose(true); err != nil {
		_ = talker.Close()
		return nil, err
	}
	return talker, nil
}

func newVolumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume",
		Short: "Query or change the volume (normalized 0-100)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:  "get",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					v, err := t.GetVolume()
					if err != nil {
						return err
					}
					fmt.Println(v)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "set <0-100>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				level, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("volume %q is not a number", args[0])
				}
				return withTalker(func(t *primare.Talker) error {
					ack, err := t.SetVolume(level)
					if err != nil {
						return err
					}
					fmt.Println(ack)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "up",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					ack, err := t.VolumeUp()
					if err != nil {
						return err
					}
					fmt.Println(ack)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "down",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					ack, err := t.VolumeDown()
					if err != nil {
						return err
					}
					fmt.Println(ack)
					return nil
				})
			},
		},
	)
	return cmd
}

func newMuteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mute",
		Short: "Query or change the mute state",
	}
	printMute := func(on bool) {
		if on {
			fmt.Println("muted")
		} else {
			fmt.Println("unmuted")
		}
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:  "get",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					on, err := t.GetMute()
					if err != nil {
						return err
					}
					printMute(on)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "on",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					on, err := t.SetMute(true)
					if err != nil {
						return err
					}
					printMute(on)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "off",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					on, err := t.SetMute(false)
					if err != nil {
						return err
					}
					printMute(on)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "toggle",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					on, err := t.MuteToggle()
					if err != nil {
						return err
					}
					printMute(on)
					return nil
				})
			},
		},
	)
	return cmd
}

func newSourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Query or select the input source (\"01\"..\"07\")",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:  "get",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					id, err := t.GetSource()
					if err != nil {
						return err
					}
					fmt.Println(id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "set <01-07>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					id, err := t.SetSource(args[0])
					if err != nil {
						return err
					}
					fmt.Println(id)
					return nil
				})
			},
		},
	)
	return cmd
}

func newPowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Change the amplifier power state",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:  "on",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error { return t.PowerOn() })
			},
		},
		&cobra.Command{
			Use:  "off",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error { return t.PowerOff() })
			},
		},
		&cobra.Command{
			Use:  "toggle",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTalker(func(t *primare.Talker) error {
					on, err := t.PowerToggle()
					if err != nil {
						return err
					}
					if on {
						fmt.Println("on")
					} else {
						fmt.Println("standby")
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show device identity and current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTalker(func(t *primare.Talker) error {
				manufacturer, err := t.Manufacturer()
				if err != nil {
					return err
				}
				model, err := t.ModelName()
				if err != nil {
					return err
				}
				version, err := t.SWVersion()
				if err != nil {
					return err
				}
				input, err := t.CurrentInputName()
				if err != nil {
					return err
				}
				volume, err := t.GetVolume()
				if err != nil {
					return err
				}
				muted, err := t.GetMute()
				if err != nil {
					return err
				}
				source, err := t.GetSource()
				if err != nil {
					return err
				}
				fmt.Printf("manufacturer: %s\n", manufacturer)
				fmt.Printf("model:        %s\n", model)
				fmt.Printf("sw version:   %s\n", version)
				fmt.Printf("source:       %s (%s)\n", source, input)
				fmt.Printf("volume:       %d\n", volume)
				fmt.Printf("muted:        %v\n", muted)
				return nil
			})
		},
	}
}

func newApplyCmd() *cobra.Command {
	var degrade bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Bring the amplifier to the configured startup state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			startup := mixer.StartupState{
				Source: cfg.Primare.Source,
				Volume: cfg.Primare.Volume,
			}

			m, err := openMixer(cfg, startup)
			if err != nil {
				if !degrade || !errors.Is(err, serialport.ErrDeviceUnavailable) {
					return err
				}
				log.Warn().Err(err).Msg("amplifier unavailable, using software mixer")
				m = mixer.NewNoop(startup)
			}
			defer m.Close()

			volume, err := m.GetVolume()
			if err != nil {
				return err
			}
			source, err := m.GetSource()
			if err != nil {
				return err
			}
			fmt.Printf("source=%s volume=%d\n", source, volume)
			return nil
		},
	}
	cmd.Flags().BoolVar(&degrade, "degrade", false,
		"fall back to a software mixer when the device cannot be opened")
	return cmd
}

func openMixer(cfg config.Config, startup mixer.StartupState) (mixer.Mixer, error) {
	ep := cfg.Endpoint()
	if portPath != "" {
		ep.Path = portPath
	}
	port, err := serialport.Open(ep, protocol.Complete)
	if err != nil {
		return nil, err
	}
	talker := primare.NewTalker(port, primare.DefaultScale())
	m, err := mixer.New(talker, startup)
	if err != nil {
		_ = talker.Close()
		return nil, err
	}
	return m, nil
}

// withTalker runs op against a connected engine and always releases the
// port, whatever exit path op takes.
func withTalker(op func(*primare.Talker) error) error {
	talker, err := connect()
	if err != nil {
		return err
	}
	defer talker.Close()
	return op(talker)
}
