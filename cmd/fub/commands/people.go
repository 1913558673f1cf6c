package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/realworks-io/fub-client/pkg/fub"
)

// NewPeopleCommand creates the people command group.
func NewPeopleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "people",
		Aliases: []string{"person", "contacts"},
		Short:   "Manage people",
		Long:    "List and export Follow Up Boss people (contacts)",
	}

	cmd.AddCommand(newPeopleListCommand())
	cmd.AddCommand(newPeopleExportCommand())

	return cmd
}

func newPeopleListCommand() *cobra.Command {
	var (
		all        bool
		concurrent bool
		limit      int
		sortExpr   string
		pondID     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people",
		Long:  "List people, optionally extracting the complete collection past the pagination cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeopleListCommand(all, concurrent, limit, sortExpr, pondID)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "extract the complete collection")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "use parallel extraction (implies --all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&sortExpr, "sort", "", "sort expression, e.g. created or -updated")
	cmd.Flags().IntVar(&pondID, "pond", 0, "extract only members of this pond (verified)")

	return cmd
}

func runPeopleListCommand(all, concurrent bool, limit int, sortExpr string, pondID int) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx := context.Background()

	params := fub.NewQueryParams()
	if limit > 0 {
		params.WithLimit(limit)
	}

	if sortExpr != "" {
		params.WithSort(sortExpr)
	}

	var people []fub.Item

	switch {
	case pondID > 0:
		people, err = client.People().ListByPond(ctx, pondID, params)
	case concurrent:
		people, err = client.People().ListAllConcurrent(ctx, fub.ListOptions{Params: params})
	case all:
		people, err = client.People().ListAll(ctx, params)
	default:
		var page fub.Page

		page, err = client.People().List(ctx, params)
		if err == nil {
			people = page.Items("people")
		}
	}

	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}

	return outputPeople(people)
}

func outputPeople(people []fub.Item) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(people)
	case OutputFormatYAML:
		return StandardYAMLRenderer(people)
	case OutputFormatCSV:
		return writePeopleCSV(os.Stdout, people)
	default:
		return renderPeopleTable(people)
	}
}

func renderPeopleTable(people []fub.Item) error {
	if len(people) == 0 {
		_, _ = os.Stdout.WriteString("No people found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Stage", "Source", "Created")

	for _, person := range people {
		_ = table.Append(
			itemString(person, "id"),
			itemString(person, "name"),
			itemString(person, "stage"),
			itemString(person, "source"),
			itemString(person, "created"),
		)
	}

	_ = table.Render()

	_, _ = fmt.Fprintf(os.Stdout, "\n%d people\n", len(people))

	return nil
}

func newPeopleExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all people to CSV",
		Long:  "Extract the complete people collection and write it as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeopleExportCommand(output)
		},
	}

	cmd.Flags().StringVarP(&output, "file", "f", "", "output file (default stdout)")

	return cmd
}

func runPeopleExportCommand(output string) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	people, err := client.People().ListAll(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to extract people: %w", err)
	}

	out := os.Stdout

	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = file.Close() }()

		out = file
	}

	if err := writePeopleCSV(out, people); err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d people to %s\n", len(people), output)
	}

	return nil
}

// writePeopleCSV renders items with a union-of-keys header so sparse fields
// still land in a stable column.
func writePeopleCSV(out *os.File, people []fub.Item) error {
	writer := csv.NewWriter(out)

	keys := map[string]struct{}{}
	for _, person := range people {
		for key := range person {
			if key == fub.RateLimitKey || key == fub.MetadataKey {
				continue
			}

			keys[key] = struct{}{}
		}
	}

	header := make([]string, 0, len(keys))
	for key := range keys {
		header = append(header, key)
	}

	sort.Strings(header)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	row := make([]string, len(header))

	for _, person := range people {
		for i, key := range header {
			if _, ok := person[key]; ok {
				row[i] = itemString(person, key)
			} else {
				row[i] = ""
			}
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	return nil
}
