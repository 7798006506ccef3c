package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gasnet/calculator/internal/evaluator"
	"github.com/gasnet/calculator/internal/hclnet"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/session"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the saved client profile",
	}

	var p profile.ClientProfile
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Save the client profile printed on reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeStore, err := openSession(evaluator.New(evaluator.DefaultOptions()))
			if err != nil {
				return err
			}
			defer closeStore()
			if err := sess.SetProfile(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Println("client profile saved")
			return nil
		},
	}
	f := setCmd.Flags()
	f.StringVar(&p.IDType, "id-type", "", "Identification type (e.g. NIT, CC)")
	f.StringVar(&p.ID, "id", "", "Identification number")
	f.StringVar(&p.Name, "name", "", "Client name")
	f.StringVar(&p.Address, "address", "", "Address")
	f.StringVar(&p.City, "city", "", "City")
	f.StringVar(&p.Department, "department", "", "Department or state")
	f.StringVar(&p.Phone, "phone", "", "Phone")
	f.StringVar(&p.Email, "email", "", "Email (optional)")
	f.StringVar(&p.ProjectType, "project-type", "", "Project type")
	f.StringVar(&p.GasType, "gas-type", "", "Gas type")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved client profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeStore, err := openSession(evaluator.New(evaluator.DefaultOptions()))
			if err != nil {
				return err
			}
			defer closeStore()
			if err := sess.LoadProfile(cmd.Context()); err != nil {
				return err
			}
			if sess.Profile() == nil {
				return profile.ErrNoProfile
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			return enc.Encode(sess.Profile())
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved client profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeStore, err := openSession(evaluator.New(evaluator.DefaultOptions()))
			if err != nil {
				return err
			}
			defer closeStore()
			err = sess.ClearProfile(cmd.Context(), promptGate(yes))
			if errors.Is(err, session.ErrNotConfirmed) {
				fmt.Println("cancelled")
				return nil
			}
			return err
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(setCmd, showCmd, clearCmd)
	return cmd
}

func writeNetwork(w io.Writer, n *network.Network, format string) error {
	switch format {
	case "hcl":
		_, err := w.Write(hclnet.Encode(n.Metadata, n.Segments))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(n); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(n)
	default:
		return fmt.Errorf("unsupported network format: %s", format)
	}
}
