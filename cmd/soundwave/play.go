package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/hazadus/soundwave/internal/player"
	"github.com/hazadus/soundwave/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [trackid]",
		Short: "Play a track by its ID",
		Long:  `Play a catalog track in the terminal. Space toggles pause, +/- change volume.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.playByID(ctx, args[0])
		},
	}
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

func (app *Application) playByID(ctx context.Context, id string) error {
	track, err := app.Catalog.TrackByID(id)
	if err != nil {
		return fmt.Errorf("ошибка поиска трека: %w", err)
	}

	fmt.Printf("🎵 Сейчас играет:\n")
	fmt.Printf("   ID: %s\n", track.ID)
	fmt.Printf("   Исполнитель: %s\n", track.Artist)
	fmt.Printf("   Название: %s\n", track.Title)
	fmt.Printf("   Альбом: %s\n", track.Album)
	fmt.Printf("   Жанр: %s\n", track.Genre)
	fmt.Println()

	session, err := app.newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	if err := session.Play(id); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}

	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [+/-] - громкость\n")
	fmt.Printf("   [Ctrl+C] - остановить и выйти\n")
	fmt.Println()

	if app.Input == os.Stdin {
		enableRawMode()
		defer disableRawMode()
	}
	go app.readKeys(session, id)

	// Главный цикл обработки событий
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Err != nil {
				fmt.Printf("\n❌ %v\n", event.Err)
				return event.Err
			}
			displayProgress(event.Snapshot)
			if event.Snapshot.State == player.Ended {
				fmt.Println("\n✅ Воспроизведение завершено")
				return nil
			}

		case <-ctx.Done():
			fmt.Println("\n⏹️  Воспроизведение остановлено")
			return nil
		}
	}
}

// readKeys обрабатывает нажатия клавиш до конца ввода
func (app *Application) readKeys(session *player.Session, id string) {
	buffer := make([]byte, 1)
	for {
		if _, err := app.Input.Read(buffer); err != nil {
			if !errors.Is(err, io.EOF) {
				app.Logger.Debug("ввод с клавиатуры недоступен")
			}
			return
		}

		switch buffer[0] {
		case ' ', '\n', '\r':
			_ = session.Play(id)
		case '+', '=':
			session.SetVolume(session.Snapshot().Volume + 0.1)
		case '-':
			session.SetVolume(session.Snapshot().Volume - 0.1)
		}
	}
}

// displayProgress отображает строку состояния
func displayProgress(snap player.Snapshot) {
	total := "--:--"
	if snap.Duration > 0 {
		total = utils.FormatTime(snap.Duration)
	}

	var statusIcon, statusText string
	switch snap.State {
	case player.Loading:
		statusIcon, statusText = "⏳", "Загрузка"
	case player.Playing:
		statusIcon, statusText = "▶️", "Воспроизведение"
	case player.Paused:
		statusIcon, statusText = "⏸️", "На паузе"
	default:
		statusIcon, statusText = "⏹️", "Остановлено"
	}

	fmt.Printf("\r\033[K%s  %s / %s | Громкость: %d%% | %s",
		statusIcon,
		utils.FormatTime(snap.Position),
		total,
		int(snap.Volume*100+0.5),
		statusText)
}
