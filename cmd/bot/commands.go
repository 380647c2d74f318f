package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/remna-admin-bot/internal/app"
	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/config"
	"serotonyl.ru/remna-admin-bot/internal/conversation"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
)

type cli struct {
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "remna-admin-bot",
		Short:         "Telegram-бот администратора панели Remnawave",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.envFile)
			if err != nil {
				return err
			}
			if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
				log.SetLevel(level)
			}
			c.cfg = cfg
			return nil
		},
		RunE: c.runBot,
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "файл с переменными окружения")

	root.AddCommand(c.pingCmd(), c.auditCmd())
	return root
}

func (c *cli) runBot(cmd *cobra.Command, _ []string) error {
	log.Info("=== Бот запускается ===")

	// SIGINT/SIGTERM (Ctrl+C, docker stop) отменяют контекст
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, c.cfg)
	if err != nil {
		return fmt.Errorf("не удалось инициализировать приложение: %w", err)
	}
	defer application.Close()

	err = application.Run(ctx)
	log.Info("=== Бот остановлен ===")
	return err
}

func (c *cli) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Проверить доступ к Remnawave API и вывести статистику системы",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.APITimeout)
			defer cancel()

			started := time.Now()
			stats, err := gateway.NewRemnawave(app.NewGateway(c.cfg)).SystemStats(ctx)
			if err != nil {
				return fmt.Errorf("панель недоступна (%s): %w", gateway.Outcome(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s отвечает за %s\n\n%s\n",
				c.cfg.APIBaseURL, time.Since(started).Round(time.Millisecond), conversation.FormatSystemStats(stats))
			return nil
		},
	}
}

func (c *cli) auditCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Показать последние записи журнала действий",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.RecentAudit(cmd.Context(), c.cfg, limit)
			if err != nil {
				return err
			}
			loc := common.LoadLocation(c.cfg.AppTimezone)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ВРЕМЯ\tСЕССИЯ\tДЕЙСТВИЕ\tЦЕЛЬ\tИТОГ")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					e.CreatedAt.In(loc).Format("2006-01-02 15:04:05"), e.SessionID, e.Action, common.OrDash(e.Target), e.Outcome)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "сколько записей показать")
	return cmd
}
