package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/filter"
	"playlist_syncer/internal/metrics"
)

const (
	movieFileName = "movie.strm"
	untitledName  = "untitled"
)

var (
	movieNameReplacer  = strings.NewReplacer("/", "", "\\", "", "<", "", ">", "", ":", "", `"`, "", "|", "", "?", "", "*", "")
	seriesNameReplacer = strings.NewReplacer("/", "", "\\", "", "<", "", ">", "", ":", "", `"`, "", "|", "", "?", "", "*", "", ",", "", "'", "")
)

// MaterializeService regenerates the on-disk output from stored state: one
// directory per fetched movie, a season tree per fetched show and a single
// filtered channel playlist.
type MaterializeService struct {
	movies   MovieStore
	episodes EpisodeStore
	channels ChannelStore
	filters  FilterStore
	logger   *slog.Logger
}

func NewMaterializeService(
	movies MovieStore,
	episodes EpisodeStore,
	channels ChannelStore,
	filters FilterStore,
	logger *slog.Logger,
) *MaterializeService {
	return &MaterializeService{
		movies:   movies,
		episodes: episodes,
		channels: channels,
		filters:  filters,
		logger:   logger.With("component", "materialize"),
	}
}

// Run executes the movies, series and channels phases in order. Each phase
// wipes and rebuilds its own output. A failing phase does not stop the
// others; all phase errors are joined into the returned error.
func (s *MaterializeService) Run(ctx context.Context, settings *domain.Settings, report domain.ProgressFunc) (*domain.RunStats, error) {
	startTime := time.Now()
	stats := domain.NewRunStats(domain.PhaseCreate)

	phases := []struct {
		name string
		run  func(context.Context, *domain.Settings, domain.ProgressFunc) (int, error)
	}{
		{"movies", s.writeMovies},
		{"series", s.writeSeries},
		{"channels", s.writeChannels},
	}

	var errs []error
	for _, p := range phases {
		written, err := p.run(ctx, settings, report)
		stats.Written += written
		metrics.FilesWritten.WithLabelValues(p.name).Add(float64(written))
		if err != nil {
			stats.Errors++
			s.logger.Error("phase failed", "phase", p.name, "written", written, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
			continue
		}
		s.logger.Info("phase completed", "phase", p.name, "written", written)
	}

	stats.Duration = time.Since(startTime)
	return stats, errors.Join(errs...)
}

func (s *MaterializeService) writeMovies(ctx context.Context, settings *domain.Settings, report domain.ProgressFunc) (int, error) {
	movies, err := s.movies.ListFetched(ctx)
	if err != nil {
		return 0, fmt.Errorf("load fetched movies: %w", err)
	}

	root := settings.MoviesSavePath
	if err := resetDir(root); err != nil {
		return 0, err
	}

	written := 0
	for _, m := range movies {
		report(fmt.Sprintf("creating file for movie %s...!", m.Name))

		dir := filepath.Join(root, safeName(movieNameReplacer, m.Name, m.ID))
		if err := writePointer(dir, movieFileName, m.URL); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

func (s *MaterializeService) writeSeries(ctx context.Context, settings *domain.Settings, report domain.ProgressFunc) (int, error) {
	episodes, err := s.episodes.ListFetched(ctx)
	if err != nil {
		return 0, fmt.Errorf("load fetched episodes: %w", err)
	}

	root := settings.SeriesSavePath
	if err := resetDir(root); err != nil {
		return 0, err
	}

	written := 0
	for _, e := range episodes {
		report(fmt.Sprintf("creating file for episode %s...!", e.Name))

		dir := filepath.Join(root,
			safeName(seriesNameReplacer, e.GroupTitle, ""),
			"Season "+strconv.Itoa(e.Season),
		)
		file := safeName(seriesNameReplacer, e.Name, e.ID) + ".strm"
		if err := writePointer(dir, file, e.URL); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

func (s *MaterializeService) writeChannels(ctx context.Context, settings *domain.Settings, report domain.ProgressFunc) (int, error) {
	channels, err := s.channels.List(ctx, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("load channels: %w", err)
	}
	rules, err := s.filters.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load filters: %w", err)
	}

	kept := filter.Apply(channels, rules)
	report(fmt.Sprintf("creating playlist file with %d channels...", len(kept)))

	path := settings.ChannelsSavePath
	if path == "" {
		return 0, errors.New("output path is empty")
	}
	if err := os.RemoveAll(path); err != nil {
		return 0, fmt.Errorf("remove %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.WriteString("#EXTM3U\n")
	for _, ch := range kept {
		writeChannelEntry(w, &ch)
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}

	return 1, nil
}

func writeChannelEntry(w *bufio.Writer, ch *domain.Channel) {
	fmt.Fprintf(w, "#EXTINF:-1 xui-id=\"%s\" tvg-id=\"%s\" tvg-name=\"%s\" tvg-logo=\"%s\" group-title=\"%s\",%s\n%s\n",
		ch.XuiID, ch.TvgID, ch.TvgName, ch.TvgLogo, ch.GroupTitle, ch.Name, ch.URL)
}

// resetDir deletes dir with everything below it and creates it again empty.
func resetDir(dir string) error {
	if dir == "" {
		return errors.New("output path is empty")
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func writePointer(dir, name, url string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(url), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// safeName strips characters that are unsafe in a path element. Names that
// end up empty or refer to a directory itself fall back to fallback, then to
// untitledName.
func safeName(r *strings.Replacer, name, fallback string) string {
	for _, candidate := range []string{name, fallback} {
		clean := strings.TrimSpace(r.Replace(candidate))
		if clean != "" && clean != "." && clean != ".." {
			return clean
		}
	}
	return untitledName
}
