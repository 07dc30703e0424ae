package commands

import (
	"github.com/spf13/cobra"

	"github.com/procflow-io/procflow/cmd/procflow/handlers"
)

// Template returns the workflow template command group.
func Template(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage and run workflow templates",
	}

	cmd.AddCommand(templateInstantiate(common))
	cmd.AddCommand(templateInstantiateInline(common))
	cmd.AddCommand(templateCreate(common))

	return cmd
}

// templateInstantiate returns the template instantiate command.
func templateInstantiate(common *handlers.Common) *cobra.Command {
	opts := handlers.TemplateInstantiateOptions{}

	cmd := &cobra.Command{
		Use:   "instantiate TEMPLATE_ID",
		Short: "Run a stored workflow template and wait for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Common = *common
			opts.TemplateID = args[0]
			return handlers.TemplateInstantiate(cmd.Context(), opts)
		},
	}

	cmd.Flags().Int32Var(&opts.Version, "version", 0, "Template version (0 for latest)")
	cmd.Flags().StringToStringVar(&opts.Parameters, "param", nil, "Template parameter (name=value)")

	return cmd
}

// templateInstantiateInline returns the template instantiate-inline command.
func templateInstantiateInline(common *handlers.Common) *cobra.Command {
	opts := handlers.TemplateInstantiateInlineOptions{}

	cmd := &cobra.Command{
		Use:   "instantiate-inline",
		Short: "Run an ad-hoc workflow template and wait for it to finish",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Common = *common
			return handlers.TemplateInstantiateInline(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SpecFile, "spec", "", "Path to a protojson WorkflowTemplate document (required)")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// templateCreate returns the template create command.
func templateCreate(common *handlers.Common) *cobra.Command {
	opts := handlers.TemplateCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Store a workflow template for later instantiation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Common = *common
			return handlers.TemplateCreate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SpecFile, "spec", "", "Path to a protojson WorkflowTemplate document (required)")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}
