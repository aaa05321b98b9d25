// Package banner prints crabdb's startup banner: the effective
// configuration a human would want to see at a glance when the process
// comes up.
package banner

import (
	"fmt"

	"crabdb/pkg/config"
)

const art = `
 ▄████▄   ██▀███   ▄▄▄       ▄▄▄▄    ▓█████▄  ▄▄▄▄
▒██▀ ▀█  ▓██ ▒ ██▒▒████▄    ▓█████▄  ▒██▀ ██▌▓█████▄
▒▓█    ▄ ▓██ ░▄█ ▒▒██  ▀█▄  ▒██▒ ▄██ ░██   █▌▒██▒ ▄██
▒▓▓▄ ▄██▒▒██▀▀█▄  ░██▄▄▄▄██ ▒██░█▀   ░▓█▄   ▌▒██░█▀
▒ ▓███▀ ░░██▓ ▒██▒ ▓█   ▓██▒░▓█  ▀█▓ ░▒████▓ ░▓█  ▀█▓
░ ░▒ ▒  ░░ ▒▓ ░▒▓░ ▒▒   ▓▒█░░▒▓███▀▒  ▒▒▓  ▒ ░▒▓███▀▒
`

// Print writes the banner and the effective configuration eff was
// loaded with to stdout.
func Print(eff config.EffectiveConfigResult) {
	c := eff.Config
	fmt.Print(art)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:       %s\n", c.Listen)
	fmt.Printf("Admin listen: %s\n", c.AdminListen)
	fmt.Printf("AOL dir:      %s\n", c.AOLDir)
	fmt.Printf("AOL files:    %d\n", c.AOLFiles)
	fmt.Printf("Store shards: %d\n", c.StoreShards)
	fmt.Printf("Workers:      %d\n", c.Workers)
	fmt.Printf("Log level:    %s\n", c.LogLevel)
	fmt.Printf("Accept rate:  %g/s (0 = unthrottled)\n", c.AcceptRatePerSecond)
	fmt.Printf("Config file:  %s\n", eff.ConfigPath)
	fmt.Printf("Sources:      %s\n", eff.Source)
	fmt.Println("================================================================")
}
