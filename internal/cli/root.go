package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "neuralfeedback",
	Short: "Generate multi-persona customer feedback for product ideas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("neuralfeedback %s\n", Version)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feedback HTTP API",
	RunE:  runServe,
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Generate a persona review batch from the terminal",
	RunE:  runReview,
}

var listVoicesCmd = &cobra.Command{
	Use:   "list-voices",
	Short: "Show the configured voice mapping for persona calls",
	RunE:  runListVoices,
}

var (
	flagAddr     string
	flagIdea     string
	flagCount    int
	flagTraits   string
	flagAgeMin   int
	flagAgeMax   int
	flagGender   string
	flagLocation string
	flagDocument string
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(listVoicesCmd)

	serveCmd.Flags().StringVarP(&flagAddr, "addr", "a", "", "Listen address (overrides ADDR env var)")

	reviewCmd.Flags().StringVarP(&flagIdea, "idea", "i", "", "Product idea to collect feedback on (required)")
	reviewCmd.Flags().IntVarP(&flagCount, "count", "c", 5, "Number of persona reviews (1-20)")
	reviewCmd.Flags().StringVarP(&flagTraits, "traits", "t", "", "Persona traits, comma-separated (required)")
	reviewCmd.Flags().IntVar(&flagAgeMin, "age-min", 0, "Minimum persona age")
	reviewCmd.Flags().IntVar(&flagAgeMax, "age-max", 0, "Maximum persona age")
	reviewCmd.Flags().StringVarP(&flagGender, "gender", "g", "", "Persona gender hint")
	reviewCmd.Flags().StringVarP(&flagLocation, "location", "l", "", "Persona location hint")
	reviewCmd.Flags().StringVarP(&flagDocument, "document", "d", "", "Supporting document (PDF or DOCX path, or URL)")
}

func Execute() error {
	return rootCmd.Execute()
}

func parseTraits(raw string) ([]string, error) {
	known := make(map[string]bool, len(persona.AvailableTraits))
	for _, t := range persona.AvailableTraits {
		known[t] = true
	}

	var traits []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !known[strings.ToLower(t)] {
			return nil, fmt.Errorf("unknown trait %q: available traits are %s",
				t, strings.Join(persona.AvailableTraits, ", "))
		}
		traits = append(traits, strings.ToLower(t))
	}
	if len(traits) == 0 {
		return nil, fmt.Errorf("--traits (-t) requires at least one trait")
	}
	return traits, nil
}
