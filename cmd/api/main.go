package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groudina/competitions/internal/app"
	"github.com/groudina/competitions/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd создает корневую команду. Без подкоманды запускается сервер.
func newRootCmd() *cobra.Command {
	var migrate bool

	serve := func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), migrate)
	}

	rootCmd := &cobra.Command{
		Use:          "competitions",
		Short:        "REST API для классных соревнований",
		RunE:         serve,
		SilenceUsage: true,
	}
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "Применить миграции перед запуском")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер",
		RunE:  serve,
	}
	serveCmd.Flags().BoolVar(&migrate, "migrate", false, "Применить миграции перед запуском")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных и выйти",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

// runMigrations применяет встроенные миграции
func runMigrations(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("не удалось создать приложение: %w", err)
	}
	defer func() {
		_ = application.Shutdown(context.Background())
	}()

	return application.Migrate(ctx)
}

// runServer запускает сервер и ждет сигнала остановки
func runServer(ctx context.Context, migrate bool) error {
	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	// Создаем экземпляр приложения
	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("не удалось создать приложение: %w", err)
	}

	// Инициализируем приложение (подключение к БД и Redis, настройка роутинга)
	if err := application.Initialize(ctx); err != nil {
		return fmt.Errorf("не удалось инициализировать приложение: %w", err)
	}

	if migrate {
		if err := application.Migrate(ctx); err != nil {
			return err
		}
	}

	// Настраиваем graceful shutdown для корректного завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем HTTP сервер в отдельной горутине
	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	fmt.Printf("Сервер запущен на порту %s\n", cfg.Server.Port)
	fmt.Println("Нажмите Ctrl+C для остановки")

	// Ожидаем сигнал прерывания или падение сервера
	runErr := waitForShutdown(sigChan, serverErr)
	if runErr != nil {
		log.Printf("Ошибка сервера: %v", runErr)
	}
	fmt.Println("\nОстановка сервера...")

	// Создаем контекст с таймаутом для graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Корректно останавливаем приложение
	if err := application.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("не удалось корректно остановить сервер: %w", err)
	}

	fmt.Println("Сервер остановлен")
	return runErr
}

// waitForShutdown блокируется до сигнала остановки или ошибки сервера.
// Возвращает ошибку сервера, если остановка вызвана ею.
func waitForShutdown(sigChan <-chan os.Signal, serverErr <-chan error) error {
	select {
	case <-sigChan:
		return nil
	case err := <-serverErr:
		return fmt.Errorf("сервер завершился с ошибкой: %w", err)
	}
}
