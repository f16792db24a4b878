package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"orglink/internal/linkage/alias"
	"orglink/internal/linkage/handler"
	"orglink/internal/linkage/models"
	"orglink/internal/linkage/registry"
	"orglink/internal/linkage/service"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	addr    string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "linkctl",
		Short: "Operate the government organization linkage engine",
		Long: `linkctl talks to the admin API of a running orglink server.

It resolves names against the registry, reports linkage coverage, and
manages the unmatched-name review queue and the registry cache.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.addr, "addr", envOr("ORGLINK_URL", "http://localhost:8080"), "orglink server base URL")
	rootCmd.PersistentFlags().StringVar(&flags.token, "token", os.Getenv("ADMIN_API_TOKEN"), "admin API token")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "request timeout")

	client := func() *adminClient { return newAdminClient(flags.addr, flags.token, flags.timeout) }

	rootCmd.AddCommand(resolveCmd(client))
	rootCmd.AddCommand(validateCmd(client))
	rootCmd.AddCommand(statsCmd(client))
	rootCmd.AddCommand(unmatchedCmd(client))
	rootCmd.AddCommand(cacheCmd(client))
	rootCmd.AddCommand(linksCmd(client))
	rootCmd.AddCommand(aliasesCmd())
	return rootCmd
}

func resolveCmd(client func() *adminClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [name]",
		Short: "Resolve one organization reference",
		Example: `  linkctl resolve "Environmental Protection Agency"
  linkctl resolve --id 145
  linkctl resolve "Homeland Security Department" --short DHS`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shortName, _ := cmd.Flags().GetString("short")
			req := handler.ResolveRequest{ShortName: shortName}
			if len(args) == 1 {
				req.Name = args[0]
			}
			if cmd.Flags().Changed("id") {
				id, _ := cmd.Flags().GetInt("id")
				req.ExternalID = &id
			}
			if req.Name == "" && req.ExternalID == nil {
				return fmt.Errorf("a name argument or --id is required")
			}
			var resp handler.ResolveResponse
			if err := client().do(cmd.Context(), http.MethodPost, "/admin/linkage/resolve", req, &resp); err != nil {
				return err
			}
			printMatch(cmd.OutOrStdout(), resp.MatchResult, resp.Organization)
			return nil
		},
	}
	cmd.Flags().String("short", "", "short name or acronym")
	cmd.Flags().Int("id", 0, "external registry id")
	return cmd
}

func validateCmd(client func() *adminClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <name>",
		Short: "Validate an extracted entity name and show suggestions on a miss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, _ := cmd.Flags().GetString("type")
			var result models.ValidationResult
			req := handler.ValidateRequest{Name: args[0], EntityType: entityType}
			if err := client().do(cmd.Context(), http.MethodPost, "/admin/linkage/validate", req, &result); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !result.Applicable {
				fmt.Fprintf(out, "not applicable: entity type %q is not validated\n", entityType)
				return nil
			}
			printMatch(out, result.Match, result.Organization)
			return nil
		},
	}
	cmd.Flags().String("type", models.EntityTypeGovernmentOrg, "entity type")
	return cmd
}

func statsCmd(client func() *adminClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show linkage coverage against a target rate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := "/admin/linkage/stats"
			if cmd.Flags().Changed("target") {
				target, _ := cmd.Flags().GetFloat64("target")
				path += "?" + url.Values{"target": {fmt.Sprintf("%g", target)}}.Encode()
			}
			var resp handler.StatsResponse
			if err := client().do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subjects:        %d\n", resp.Total)
			fmt.Fprintf(out, "Linked:          %d\n", resp.Linked)
			fmt.Fprintf(out, "Unmatched names: %d\n", resp.UnmatchedNames)
			fmt.Fprintf(out, "Linkage rate:    %.2f%%\n", resp.Rate)
			verdict := "below"
			if resp.MeetsTarget {
				verdict = "meets"
			}
			fmt.Fprintf(out, "Target:          %.2f%% (%s)\n", resp.Target, verdict)
			return nil
		},
	}
	cmd.Flags().Float64("target", 0, "target linkage rate in percent (server default when omitted)")
	return cmd
}

func unmatchedCmd(client func() *adminClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmatched",
		Short: "List, or with --clear empty, the unmatched-name review queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if clearQueue, _ := cmd.Flags().GetBool("clear"); clearQueue {
				if err := client().do(cmd.Context(), http.MethodDelete, "/admin/linkage/unmatched", nil, nil); err != nil {
					return err
				}
				fmt.Fprintln(out, "unmatched names cleared")
				return nil
			}
			var resp handler.UnmatchedResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/admin/linkage/unmatched", nil, &resp); err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(out, resp)
			}
			fmt.Fprintf(out, "%d unmatched names\n", resp.Count)
			for _, name := range resp.Names {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().Bool("clear", false, "clear the queue instead of listing it")
	cmd.Flags().Bool("json", false, "print JSON")
	return cmd
}

func cacheCmd(client func() *adminClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show registry cache sizes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var stats service.CacheStats
			if err := client().do(cmd.Context(), http.MethodGet, "/admin/linkage/cache", nil, &stats); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ready: %t\n", stats.Ready)
			printSizes(out, stats.Sizes)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Reload the registry cache from the organization store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sizes registry.Sizes
			if err := client().do(cmd.Context(), http.MethodPost, "/admin/linkage/cache/refresh", nil, &sizes); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "registry cache refreshed")
			printSizes(cmd.OutOrStdout(), sizes)
			return nil
		},
	})
	return cmd
}

func linksCmd(client func() *adminClient) *cobra.Command {
	return &cobra.Command{
		Use:   "links <subject-id>",
		Short: "List stored organization links for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid subject id: %w", err)
			}
			var resp handler.LinksResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/admin/linkage/subjects/"+subjectID.String()+"/links", nil, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d links for %s\n", len(resp.Links), resp.SubjectID)
			for _, row := range resp.Links {
				marker := " "
				if row.IsPrimary {
					marker = "*"
				}
				fmt.Fprintf(out, " %s %s  %s\n", marker, row.OrganizationID, row.RawName)
			}
			return nil
		},
	}
}

func aliasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Work with manual alias files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Parse an alias file locally and report the merged table size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := alias.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d aliases after merging with %d defaults\n",
				args[0], table.Len(), alias.Default().Len())
			return nil
		},
	})
	return cmd
}

func printMatch(out io.Writer, match models.MatchResult, org *models.Organization) {
	if !match.Matched {
		fmt.Fprintln(out, "no match")
		if len(match.Suggestions) > 0 {
			fmt.Fprintln(out, "Did you mean:")
			for _, s := range match.Suggestions {
				fmt.Fprintf(out, "  %s\n", s)
			}
		}
		return
	}
	fmt.Fprintf(out, "Matched %s via %s (confidence %.2f)\n", match.OrganizationID, match.Strategy, match.Confidence)
	if org != nil {
		fmt.Fprintf(out, "  %s", org.OfficialName)
		if org.Acronym != "" {
			fmt.Fprintf(out, " (%s)", org.Acronym)
		}
		fmt.Fprintln(out)
	}
}

func printSizes(out io.Writer, sizes registry.Sizes) {
	fmt.Fprintf(out, "Names:        %d\n", sizes.Names)
	fmt.Fprintf(out, "Acronyms:     %d\n", sizes.Acronyms)
	fmt.Fprintf(out, "External ids: %d\n", sizes.ExternalIDs)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
