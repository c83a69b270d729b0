package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/opengrove/feedbridge/internal/config"
	"github.com/opengrove/feedbridge/internal/domain"
	"github.com/opengrove/feedbridge/internal/jira"
	"github.com/opengrove/feedbridge/internal/sqlite"
)

// publish runs one publish pass for a hand-assembled story, for debugging
// tracker integration or backfilling a missed update. Provider, flags, and
// the store come from the same configuration as the server.
func main() {
	var (
		subjectID string
		authorID  string
		text      string
		uri       string
		shortName string
		title     string
		kind      string
		closed    bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish one story to the linked tracker issues of a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.NewViper())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			repo, err := sqlite.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer repo.Close()

			tracker := jira.NewClient(cfg.Provider.BaseURL)
			service := domain.NewPublishService(
				cfg.Provider,
				cfg.Actions,
				repo, repo, repo,
				tracker,
				logger,
			)

			story := &domain.Story{
				ID:        uuid.NewString(),
				SubjectID: subjectID,
				AuthorID:  authorID,
				Text:      text,
			}
			subject := &domain.Subject{
				ID:        subjectID,
				Kind:      kind,
				ShortName: shortName,
				Title:     title,
				URI:       uri,
				Closed:    closed,
			}

			if err := service.PublishStory(cmd.Context(), story, subject); err != nil {
				return err
			}

			snap := service.Stats().Snapshot()
			fmt.Printf("published %d record(s), %d left unpublished, %d failed attempt(s)\n",
				snap.RecordsPublished, snap.RecordsUnpublished, snap.AttemptFailures)
			return nil
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "subject identity the story is about")
	cmd.Flags().StringVar(&authorID, "author", "", "identity of the acting user")
	cmd.Flags().StringVar(&text, "text", "", "rendered story text")
	cmd.Flags().StringVar(&uri, "uri", "", "canonical URI of the subject")
	cmd.Flags().StringVar(&shortName, "short-name", "", "compact subject name (e.g. D123)")
	cmd.Flags().StringVar(&title, "title", "", "subject title")
	cmd.Flags().StringVar(&kind, "kind", domain.SubjectKindChange, "subject kind")
	cmd.Flags().BoolVar(&closed, "closed", false, "whether the subject is closed")
	cmd.MarkFlagRequired("subject")
	cmd.MarkFlagRequired("author")
	cmd.MarkFlagRequired("text")
	cmd.MarkFlagRequired("uri")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
