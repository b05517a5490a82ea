package main

import (
	"fmt"
	"strings"

	"artifact-catalog-service/internal/core/domain"

	"github.com/spf13/cobra"
)

func newGroupsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage staff groups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the Funcionario and Administrador groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.users().EnsureGroups(cmd.Context())
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", g.ID, g.Name)
			}
			return nil
		},
	})

	return cmd
}

type userFlags struct {
	username    string
	email       string
	password    string
	role        string
	rut         string
	institution string
	firstName   string
	lastName    string
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts",
	}

	var f userFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
		Long: `Create a staff account. The role is FUNCIONARIO (FN) or ADMINISTRADOR
(AD) and decides the group the account joins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := &domain.User{
				Username:    f.username,
				Email:       f.email,
				FirstName:   strings.TrimSpace(f.firstName),
				LastName:    strings.TrimSpace(f.lastName),
				Role:        domain.Role(f.role),
				RUT:         strings.TrimSpace(f.rut),
				Institution: strings.TrimSpace(f.institution),
				IsActive:    true,
			}
			saved, err := a.users().Save(cmd.Context(), user, f.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", saved.ID, saved.Username, saved.Role)
			return nil
		},
	}

	createCmd.Flags().StringVar(&f.username, "username", "", "Login name (required)")
	createCmd.Flags().StringVar(&f.email, "email", "", "Email address (required)")
	createCmd.Flags().StringVar(&f.password, "password", "", "Password (required)")
	createCmd.Flags().StringVar(&f.role, "role", string(domain.RoleFuncionario), "FUNCIONARIO or ADMINISTRADOR")
	createCmd.Flags().StringVar(&f.rut, "rut", "", "Chilean RUT without dots or dash")
	createCmd.Flags().StringVar(&f.institution, "institution", "", "Institution name")
	createCmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	createCmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	cmd.AddCommand(createCmd)

	return cmd
}
