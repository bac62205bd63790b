package main

import (
	"github.com/spf13/cobra"
)

func newSoundCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "sound [on|off|toggle|status]",
		Short:     "Mute or unmute feedback sounds",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "toggle", "status"},
		RunE:      runSoundCmd,
	}
}

func runSoundCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	action := "status"
	if len(args) == 1 {
		action = args[0]
	}
	var muted bool
	switch action {
	case "on":
		err = a.prefs.SetMuted(false)
	case "off":
		muted = true
		err = a.prefs.SetMuted(true)
	case "toggle":
		muted, err = a.prefs.Toggle()
	default:
		muted = a.prefs.Muted()
	}
	if err != nil {
		return err
	}
	state := "on"
	if muted {
		state = "off"
	}
	return statusLine(cmd.OutOrStdout(), "Sound: %s", state)
}
