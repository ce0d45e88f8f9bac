/*
Copyright 2024 Linkmint Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linkmint/linkmint"
	"github.com/linkmint/linkmint/config"
	"github.com/linkmint/linkmint/database"
	"github.com/linkmint/linkmint/internal/notification"
)

// Linkmint represents the CLI application, encapsulating the root Cobra command.
type Linkmint struct {
	cmd *cobra.Command
}

// linkmintInstance holds the engine instance and its configuration for
// use by the subcommands.
type linkmintInstance struct {
	lm  *linkmint.Linkmint
	cnf *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the engine before
// running any command.
func preRun(app *linkmintInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("linkmint.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newLinkmint, err := setupLinkmint(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		// Outbound event notifications ride the webhook queue.
		notification.RegisterWebhookSender(func(event string, payload interface{}) error {
			return linkmint.SendWebhook(linkmint.NewWebhook{Event: event, Payload: payload})
		})

		app.lm = newLinkmint
		app.cnf = cnf

		return nil
	}
}

// setupLinkmint creates the engine over a datasource built from the
// configuration.
func setupLinkmint(cfg *config.Configuration) (*linkmint.Linkmint, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newLinkmint, err := linkmint.NewLinkmint(db)
	if err != nil {
		return nil, fmt.Errorf("error creating linkmint: %v", err)
	}
	return newLinkmint, nil
}

// NewCLI creates the command-line interface for the Linkmint server.
func NewCLI() *Linkmint {
	var configFile string
	b := &linkmintInstance{}

	var rootCmd = &cobra.Command{
		Use:   "linkmint",
		Short: "Affiliate attribution and commission ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./linkmint.json", "Configuration file for linkmint")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands())

	return &Linkmint{cmd: rootCmd}
}

func (w Linkmint) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
