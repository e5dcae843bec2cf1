package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const apparmorManual = `These are basic hints for AppArmor profile.

r - read
w - write
a - append (implied by w)
x - execute
m - memory map executable
k - lock (requires r or w, AppArmor 2.1 and later)
l - link
Ix - the new process should run under the current profile
Cx - the new process should run under a child profile that matches the name of the executable
Px - the new process should run under another profile that matches the name of the executable
Ux - the new process should run unconfined

More info at: https://gitlab.com/apparmor/apparmor/-/wikis/QuickProfileLanguage`

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Show the abridged AppArmor permission-mask manual",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(apparmorManual)
	},
}

func init() {
	rootCmd.AddCommand(manualCmd)
}
