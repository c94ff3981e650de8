package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// remindersCommand inspects the reminder store without starting a session
func remindersCommand() *cli.Command {
	var cfg config
	var all bool

	flags := globalFlags(&cfg)
	flags = append(flags, &cli.BoolFlag{
		Name:        "all",
		Aliases:     []string{"a"},
		Usage:       "Include completed reminders",
		Destination: &all,
	})

	return &cli.Command{
		Name:  "reminders",
		Usage: "List stored reminders",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.applyFile(); err != nil {
				return err
			}
			logging.SetDefault(logging.New(cfg.logLevel, nil))

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}

			reminders, err := repo.ListReminders(ctx, all)
			if err != nil {
				return err
			}
			if len(reminders) == 0 {
				fmt.Println("no reminders")
				return nil
			}
			for _, r := range reminders {
				status := "active"
				if r.Completed {
					status = "completed"
				} else if r.Announced {
					status = "announced"
				}
				fmt.Printf("%d\t%s\t%s\t%s\n", r.ID, status, r.ScheduledAt, r.Task)
			}
			return nil
		},
	}
}

// alarmsCommand inspects the alarm store without starting a session
func alarmsCommand() *cli.Command {
	var cfg config
	var all bool

	flags := globalFlags(&cfg)
	flags = append(flags, &cli.BoolFlag{
		Name:        "all",
		Aliases:     []string{"a"},
		Usage:       "Include triggered alarms",
		Destination: &all,
	})

	return &cli.Command{
		Name:  "alarms",
		Usage: "List stored alarms",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.applyFile(); err != nil {
				return err
			}
			logging.SetDefault(logging.New(cfg.logLevel, nil))

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}

			alarms, err := repo.ListAlarms(ctx, all)
			if err != nil {
				return err
			}
			if len(alarms) == 0 {
				fmt.Println("no alarms")
				return nil
			}
			for _, alarm := range alarms {
				status := "pending"
				if alarm.Triggered {
					status = "triggered"
				}
				fmt.Printf("%d\t%s\t%s\t%s\n", alarm.ID, status, alarm.FireAt.Format("2006-01-02 15:04:05"), alarm.Message)
			}
			return nil
		},
	}
}
