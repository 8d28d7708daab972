package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheusfarocha/NeuralFeedback/internal/config"
)

func runListVoices(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rows := []struct {
		label string
		id    string
	}{
		{"default", cfg.Voices.Default},
		{"male", cfg.Voices.Male},
		{"female", cfg.Voices.Female},
		{"non-binary", cfg.Voices.NonBinary},
	}

	fmt.Printf("Voice mapping (%s):\n", cfg.TTSProvider)
	for _, row := range rows {
		id := row.id
		if id == "" {
			id = metaStyle.Render("(not set)")
		}
		fmt.Printf("  %-12s %s\n", row.label, id)
	}

	if effective := cfg.Voices.Resolve(""); effective == "" {
		fmt.Println(warnStyle.Render("No voices configured; persona calls will fail until one is set."))
	}
	return nil
}
