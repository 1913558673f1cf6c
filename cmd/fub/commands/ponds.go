package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/realworks-io/fub-client/pkg/fub"
)

// NewPondsCommand creates the ponds command group.
func NewPondsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ponds",
		Aliases: []string{"pond"},
		Short:   "Manage ponds",
		Long:    "List ponds and verify pond extraction reliability",
	}

	cmd.AddCommand(newPondsListCommand())
	cmd.AddCommand(newPondsVerifyCommand())

	return cmd
}

func newPondsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ponds",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			ponds, err := client.Ponds().ListAll(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list ponds: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(ponds)
			case OutputFormatYAML:
				return StandardYAMLRenderer(ponds)
			default:
				return renderPondTable(ponds)
			}
		},
	}
}

func renderPondTable(ponds []fub.Item) error {
	if len(ponds) == 0 {
		_, _ = os.Stdout.WriteString("No ponds found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Members")

	for _, pond := range ponds {
		_ = table.Append(
			itemString(pond, "id"),
			itemString(pond, "name"),
			itemString(pond, "memberCount"),
		)
	}

	_ = table.Render()

	return nil
}

func newPondsVerifyCommand() *cobra.Command {
	var expectedCount int

	cmd := &cobra.Command{
		Use:   "verify <pond-id>",
		Short: "Verify pond extraction reliability",
		Long: `Audit every extraction method for one pond and report which of them
produce verifiable results. Use this before trusting the server-side pond
filter for a pond.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pondID, err := strconv.Atoi(args[0])
			if err != nil || pondID <= 0 {
				return ErrPondIDRequired
			}

			return runPondsVerifyCommand(pondID, expectedCount)
		},
	}

	cmd.Flags().IntVar(&expectedCount, "expected", -1, "expected member count, if known")

	return cmd
}

func runPondsVerifyCommand(pondID, expectedCount int) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	report, err := client.People().VerifyPondExtraction(context.Background(), pondID, expectedCount)
	if err != nil {
		return fmt.Errorf("failed to verify pond %d: %w", pondID, err)
	}

	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(report)
	case OutputFormatYAML:
		return StandardYAMLRenderer(report)
	default:
		return renderVerificationReport(report)
	}
}

func renderVerificationReport(report *fub.VerificationReport) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Method", "Count", "Works", "Accuracy", "Time (s)")

	methods := make([]string, 0, len(report.ExtractionMethods))
	for name := range report.ExtractionMethods {
		methods = append(methods, name)
	}

	sort.Strings(methods)

	for _, name := range methods {
		method := report.ExtractionMethods[name]
		_ = table.Append(
			name,
			strconv.Itoa(method.Count),
			strconv.FormatBool(method.Works),
			fmt.Sprintf("%.2f", method.Accuracy),
			fmt.Sprintf("%.2f", method.ExtractionTime),
		)
	}

	_ = table.Render()

	_, _ = fmt.Fprintf(os.Stdout, "\nVerification passed: %v\n", report.VerificationPassed)
	_, _ = fmt.Fprintf(os.Stdout, "Recommendation: %s\n", report.Recommendation)

	for _, issue := range report.APIIssuesDetected {
		_, _ = fmt.Fprintf(os.Stdout, "API issue: %s\n", issue)
	}

	return nil
}
