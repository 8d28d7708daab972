package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matheusfarocha/NeuralFeedback/internal/config"
	"github.com/matheusfarocha/NeuralFeedback/internal/ingest"
	"github.com/matheusfarocha/NeuralFeedback/internal/observability"
	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF"))
)

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(flagIdea) == "" {
		return fmt.Errorf("--idea (-i) is required")
	}
	traits, err := parseTraits(flagTraits)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.InitLogger()

	svcs, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svcs.Close()

	documentText, err := loadDocument(ctx, flagDocument)
	if err != nil {
		return err
	}

	req := persona.BatchRequest{
		IdeaText:     strings.TrimSpace(flagIdea),
		ReviewCount:  persona.ClampCount(flagCount),
		Traits:       traits,
		Gender:       flagGender,
		Location:     flagLocation,
		DocumentText: documentText,
	}
	if flagAgeMin > 0 {
		req.AgeMin = &flagAgeMin
	}
	if flagAgeMax > 0 {
		req.AgeMax = &flagAgeMax
	}

	tasks, err := persona.BuildTasks(req)
	if err != nil {
		return err
	}

	if svcs.offline {
		fmt.Println(warnStyle.Render(persona.FallbackMessage))
		printReviews(persona.BuildFallback(req.IdeaText, req.ReviewCount, traits))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Generating %d persona reviews...", len(tasks))))

	result := svcs.dispatcher.Dispatch(ctx, tasks)
	if result.Exhausted() {
		fmt.Println(warnStyle.Render("No reviews generated; showing simulated personas."))
		for _, te := range result.Errors {
			fmt.Fprintln(os.Stderr, warnStyle.Render("  "+te.Error()))
		}
		printReviews(persona.BuildFallback(req.IdeaText, req.ReviewCount, traits))
		return nil
	}

	printReviews(result.Reviews)

	for _, te := range result.Errors {
		fmt.Fprintln(os.Stderr, warnStyle.Render(te.Error()))
	}

	summary := svcs.summarizer.Summarize(ctx, result.Reviews)
	printSummary(summary)
	return nil
}

func loadDocument(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", nil
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return ingest.FetchURL(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", source, err)
	}
	return ingest.Extract(source, data)
}

func printReviews(reviews []persona.Review) {
	for _, r := range reviews {
		m := r.Metadata
		fmt.Println()
		fmt.Printf("%s %s\n", nameStyle.Render(m.PersonaName), metaStyle.Render(fmt.Sprintf("(rating %d/10)", m.SentimentRating)))
		if m.PersonaDescriptor != "" {
			fmt.Println(metaStyle.Render("  " + m.PersonaDescriptor))
		}
		fmt.Println("  " + strings.ReplaceAll(r.Text, "\n", "\n  "))
	}
}

func printSummary(summary persona.Summary) {
	if len(summary.Glows) > 0 {
		fmt.Println()
		fmt.Println(sectionStyle.Render("Glows"))
		for _, g := range summary.Glows {
			fmt.Println("  + " + g)
		}
	}
	if len(summary.Grows) > 0 {
		fmt.Println()
		fmt.Println(sectionStyle.Render("Grows"))
		for _, g := range summary.Grows {
			fmt.Println("  - " + g)
		}
	}
}
