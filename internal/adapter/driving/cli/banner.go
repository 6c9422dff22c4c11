package cli

import (
	"fmt"

	"github.com/diillson/aws-service-audit-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
         /$$$$$$$$ /$$$$$$$  /$$    /$$         /$$$$$$                  /$$ /$$   /$$
        | $$_____/| $$__  $$| $$   | $$        /$$__  $$                | $$|__/  | $$
        | $$      | $$  \ $$| $$   | $$       | $$  \ $$ /$$   /$$  /$$$$$$$ /$$ /$$$$$$
        | $$$$$   | $$$$$$$/|  $$ / $$/       | $$$$$$$$| $$  | $$ /$$__  $$| $$|_  $$_/
        | $$__/   | $$__  $$ \  $$ $$/        | $$__  $$| $$  | $$| $$  | $$| $$  | $$
        | $$      | $$  \ $$  \  $$$/         | $$  | $$| $$  | $$| $$  | $$| $$  | $$ /$$
        | $$$$$$$$| $$  | $$   \  $/          | $$  | $$|  $$$$$$/|  $$$$$$$| $$  |  $$$$/
        |________/|__/  |__/    \_/           |__/  |__/ \______/  \_______/|__/   \___/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("AWS Service Audit CLI (v%s)", formattedVersion)))
}
