package cstyle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// WatchMode provides continuous file monitoring and re-checking. It never
// rewrites files; fixes are only applied by explicit command invocations.
type WatchMode struct {
	runner     *Runner
	config     Config
	configPath string
	logger     *slog.Logger
	fs         afero.Fs

	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	// Debouncing state
	mu             sync.Mutex
	pendingChanges map[string]time.Time
	debounceTimer  *time.Timer

	// Formatting options
	groupByCheck bool

	// Statistics
	stats WatchStats
}

// WatchStats holds statistics about watch mode operation
type WatchStats struct {
	mu              sync.Mutex
	totalRuns       int
	violationsFound int
	lastRunTime     time.Time
}

// WatchConfig holds configuration for watch mode
type WatchConfig struct {
	Path         string
	ConfigPath   string
	Logger       *slog.Logger
	FS           afero.Fs
	DebounceTime time.Duration
	GroupByCheck bool
}

// NewWatchMode creates a new WatchMode instance
func NewWatchMode(cfg WatchConfig) (*WatchMode, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}

	if cfg.DebounceTime == 0 {
		cfg.DebounceTime = 100 * time.Millisecond
	}

	config, err := LoadConfig(cfg.FS, cfg.Path, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	runner, err := NewRunner(config, cfg.Logger, cfg.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	wm := &WatchMode{
		runner:         runner,
		config:         config,
		configPath:     cfg.ConfigPath,
		logger:         cfg.Logger,
		fs:             cfg.FS,
		watcher:        watcher,
		debounceTime:   cfg.DebounceTime,
		pendingChanges: make(map[string]time.Time),
		groupByCheck:   cfg.GroupByCheck,
	}

	return wm, nil
}

// Start begins watching for file changes
func (w *WatchMode) Start(ctx context.Context, path string) error {
	w.logger.Info("Starting watch mode", "path", path)

	if err := w.runInitialCheck(path); err != nil {
		return fmt.Errorf("initial check failed: %w", err)
	}

	if err := w.addDirsToWatcher(path); err != nil {
		return fmt.Errorf("failed to add files to watcher: %w", err)
	}

	// Watch config file if specified
	if w.configPath != "" {
		if err := w.watchConfigFile(w.configPath); err != nil {
			w.logger.Warn("Failed to watch config file", "path", w.configPath, "error", err)
		}
	}

	w.printWatchingMessage(path)

	return w.processEvents(ctx, path)
}

// Stop gracefully stops the watcher
func (w *WatchMode) Stop() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// runInitialCheck performs the first pass over every tracked file
func (w *WatchMode) runInitialCheck(path string) error {
	files, err := CollectSourceFiles(w.fs, path, w.config)
	if err != nil {
		return err
	}

	result := w.runner.RunAll(AllChecks(w.config), files)
	w.printResult(result)
	w.updateStats(len(result.Violations.Violations))
	return nil
}

// addDirsToWatcher recursively adds directories to the watcher. Watching
// directories instead of individual files also catches newly created files.
func (w *WatchMode) addDirsToWatcher(root string) error {
	return afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.logger.Warn("Error walking path", "path", path, "error", err)
			return nil // Continue walking
		}

		if info.IsDir() {
			// Skip hidden directories and build output
			if path != root && (strings.HasPrefix(info.Name(), ".") || info.Name() == "build") {
				return filepath.SkipDir
			}

			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("Failed to watch directory", "path", path, "error", err)
			}
		}

		return nil
	})
}

// watchConfigFile adds the config file to the watcher
func (w *WatchMode) watchConfigFile(configPath string) error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}

	// Watch the directory containing the config file
	configDir := filepath.Dir(absPath)
	return w.watcher.Add(configDir)
}

// processEvents handles file system events with debouncing
func (w *WatchMode) processEvents(ctx context.Context, rootPath string) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watch mode")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(event, rootPath)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleEvent processes a single file system event
func (w *WatchMode) handleEvent(event fsnotify.Event, rootPath string) {
	if !w.shouldProcessEvent(event) {
		return
	}

	if w.isConfigFile(event.Name) {
		w.handleConfigChange(rootPath)
		return
	}

	if !w.isTrackedFile(event.Name) {
		return
	}

	// Add to pending changes for debouncing
	w.mu.Lock()
	w.pendingChanges[event.Name] = time.Now()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		w.processPendingChanges()
	})
	w.mu.Unlock()
}

// shouldProcessEvent filters events we care about
func (w *WatchMode) shouldProcessEvent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// isTrackedFile reports whether the path carries one of the configured
// header or source extensions
func (w *WatchMode) isTrackedFile(path string) bool {
	return w.config.RoleOf(path) != RoleOther
}

// isConfigFile checks if the event is for the config file
func (w *WatchMode) isConfigFile(path string) bool {
	if w.configPath == "" {
		return false
	}

	absConfigPath, _ := filepath.Abs(w.configPath)
	absEventPath, _ := filepath.Abs(path)

	return absConfigPath == absEventPath
}

// handleConfigChange reloads config and re-checks everything
func (w *WatchMode) handleConfigChange(rootPath string) {
	w.printTimestamp()
	fmt.Println(color.New(color.FgYellow, color.Bold).Sprint("Config file changed"))
	fmt.Println(color.New(color.FgCyan).Sprint("Reloading configuration and re-checking all files..."))

	newConfig, err := LoadConfig(w.fs, rootPath, w.configPath)
	if err != nil {
		w.printError(fmt.Sprintf("Failed to reload config: %v", err))
		return
	}

	newRunner, err := NewRunner(newConfig, w.logger, w.fs)
	if err != nil {
		w.printError(fmt.Sprintf("Failed to create runner with new config: %v", err))
		return
	}

	// The debounce goroutine reads runner and config, so the swap happens
	// under the same lock.
	w.mu.Lock()
	w.runner = newRunner
	w.config = newConfig
	w.mu.Unlock()

	files, err := CollectSourceFiles(w.fs, rootPath, newConfig)
	if err != nil {
		w.printError(fmt.Sprintf("Failed to list files: %v", err))
		return
	}

	result := newRunner.RunAll(AllChecks(newConfig), files)
	w.printResult(result)
	w.updateStats(len(result.Violations.Violations))
}

// processPendingChanges re-checks all pending file changes
func (w *WatchMode) processPendingChanges() {
	w.mu.Lock()
	changes := make([]string, 0, len(w.pendingChanges))
	for path := range w.pendingChanges {
		changes = append(changes, path)
	}
	w.pendingChanges = make(map[string]time.Time)
	// Snapshot under the lock: a config reload swaps these concurrently.
	runner := w.runner
	cfg := w.config
	w.mu.Unlock()

	if len(changes) == 0 {
		return
	}

	w.printTimestamp()
	for _, path := range changes {
		fmt.Println(color.New(color.FgCyan).Sprintf("%s changed", path))
	}

	fileText := "file"
	if len(changes) > 1 {
		fileText = "files"
	}
	fmt.Println(color.New(color.FgMagenta).Sprintf("Re-checking %d %s...", len(changes), fileText))

	// Skip files deleted between the event and the debounce firing
	existing := make([]string, 0, len(changes))
	for _, file := range changes {
		info, err := w.fs.Stat(file)
		if err != nil {
			if os.IsNotExist(err) {
				w.logger.Debug("File was deleted, skipping", "path", file)
				continue
			}
			w.logger.Warn("Failed to stat file", "path", file, "error", err)
			continue
		}
		if info.IsDir() {
			continue
		}
		existing = append(existing, file)
	}

	result := runner.RunAll(AllChecks(cfg), existing)
	w.printResult(result)
	w.updateStats(len(result.Violations.Violations))
}

// printWatchingMessage prints the watching message
func (w *WatchMode) printWatchingMessage(path string) {
	fmt.Println()
	fmt.Println(color.New(color.FgGreen, color.Bold).Sprintf("Watching %s for changes...", path))
	fmt.Println(color.New(color.FgHiBlack).Sprint("Press Ctrl+C to stop"))
	fmt.Println()
}

// printTimestamp prints the current timestamp
func (w *WatchMode) printTimestamp() {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("[%s] ", color.New(color.FgHiBlack).Sprint(timestamp))
}

// printResult formats and prints a check result
func (w *WatchMode) printResult(result *Result) {
	formatter := NewTextFormatter()
	formatter.GroupByCheck = w.groupByCheck

	out, err := formatter.Format(result, &w.config)
	if err != nil {
		w.printError(fmt.Sprintf("Failed to format result: %v", err))
		return
	}
	fmt.Print(string(out))
	fmt.Println()
}

// printError prints an error message
func (w *WatchMode) printError(msg string) {
	fmt.Println(color.New(color.FgRed, color.Bold).Sprint("Error: ") + msg)
	fmt.Println()
}

// updateStats updates watch mode statistics
func (w *WatchMode) updateStats(violations int) {
	w.stats.mu.Lock()
	defer w.stats.mu.Unlock()

	w.stats.totalRuns++
	w.stats.violationsFound += violations
	w.stats.lastRunTime = time.Now()
}

// CollectSourceFiles walks root and returns every file carrying one of the
// configured header or source extensions, skipping hidden directories.
func CollectSourceFiles(fs afero.Fs, root string, cfg Config) ([]string, error) {
	var files []string

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && (strings.HasPrefix(info.Name(), ".") || info.Name() == "build") {
				return filepath.SkipDir
			}
			return nil
		}

		if cfg.RoleOf(path) != RoleOther {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, WithFile(NewFSError("failed to walk directory tree", err), root)
	}

	return files, nil
}
