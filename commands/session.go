package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IsaacT30/airport-console/core/auth/session"
	"github.com/IsaacT30/airport-console/errors"
)

func loginCmd(open opener) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if username == "" {
				username, err = prompt("Username: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = prompt("Password: ")
				if err != nil {
					return err
				}
			}

			identity, err := c.session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			role := session.ResolveRole(identity)
			c.printf("Signed in as %s (%s)\n", identity.Username, role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func logoutCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			c.session.Logout(cmd.Context())
			c.println("Signed out.")
			return nil
		},
	}
}

func registerCmd(open opener) *cobra.Command {
	var reg session.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if reg.Username == "" || reg.Password == "" || reg.Email == "" {
				return errors.BadRequest("username, password and email are required")
			}

			identity, err := c.session.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}

			c.printf("Account created. Signed in as %s (%s)\n",
				identity.Username, session.ResolveRole(identity))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&reg.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "last name")
	return cmd
}

func whoamiCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, role and session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			identity, err := c.session.Hydrate(ctx)
			if err != nil {
				return err
			}
			if identity == nil {
				c.println("Not signed in.")
				return nil
			}

			role := session.ResolveRole(identity)
			c.printf("User:  %s\n", identity.Username)
			if identity.Email != "" {
				c.printf("Email: %s\n", identity.Email)
			}
			c.printf("Role:  %s\n", role)

			caps := role.Capabilities()
			c.printf("Can:   view=%t create=%t edit=%t delete=%t change-status=%t\n",
				caps.View, caps.Create, caps.Edit, caps.Delete, caps.ChangeStatus)

			if access, err := c.store.AccessToken(ctx); err == nil && access != "" {
				if expiry, ok := session.TokenExpiry(access); ok {
					c.printf("Token: expires %s\n", expiry.Local().Format(time.DateTime))
				}
			}
			return nil
		},
	}
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.BadRequest("cannot read input: %v", err)
	}
	return strings.TrimSpace(line), nil
}
