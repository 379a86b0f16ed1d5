package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/slidecast/internal/catalog"
	"github.com/ivlev/slidecast/internal/config"
	"github.com/ivlev/slidecast/internal/probe"
	"github.com/ivlev/slidecast/internal/project"
	"github.com/ivlev/slidecast/internal/render"
	"github.com/ivlev/slidecast/internal/timeline"
)

// Pipeline wires the collaborators around the scheduler: probe the
// audio, scan the photos, build one schedule and hand it to exactly
// one emitter.
type Pipeline struct {
	cfg    config.Config
	logger zerolog.Logger

	tempDir string
}

func New(cfg config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger.With().Str("component", "engine").Logger(),
	}
}

// Run executes one full pass. All scheduling errors surface before any
// encoder runs; scratch files live in a per-run temp dir removed on
// every exit path.
func (p *Pipeline) Run(ctx context.Context) error {
	defer p.cleanup()

	audioDuration, err := probe.AudioDuration(ctx, p.cfg.AudioPath)
	if err != nil {
		return err
	}
	p.logger.Info().
		Str("audio", p.cfg.AudioPath).
		Float64("seconds", audioDuration).
		Msg("audio probed")

	src, err := p.openSource(p.cfg.PhotosPath)
	if err != nil {
		return err
	}
	defer src.Close()
	photos := src.Photos()
	p.logger.Info().Int("photos", len(photos)).Msg("photo set scanned")

	sched, err := timeline.Build(buildRequest(p.cfg, audioDuration, len(photos)))
	if err != nil {
		return err
	}
	p.logger.Info().
		Str("mode", sched.Mode.String()).
		Int("placements", len(sched.Placements)).
		Float64("photo_duration", sched.Timing.PhotoDuration).
		Float64("transition", sched.Timing.TransitionDuration).
		Msg("schedule built")

	if p.cfg.DumpSchedule != "" {
		if err := project.WriteSchedulePreview(sched, photos, p.cfg.DumpSchedule); err != nil {
			return fmt.Errorf("writing schedule preview: %w", err)
		}
	}

	if p.cfg.OutputProject != "" {
		return p.emitProject(ctx, sched, photos, audioDuration)
	}
	return p.render(ctx, sched, photos, audioDuration)
}

func (p *Pipeline) emitProject(ctx context.Context, sched *timeline.Schedule, photos []string, audioDuration float64) error {
	dims, err := catalog.ProbeDimensions(ctx, photos, p.cfg.Workers)
	if err != nil {
		return fmt.Errorf("probing photo dimensions: %w", err)
	}

	proj, err := project.Emit(sched, p.cfg.AudioPath, audioDuration, photos, dims, project.Meta{
		Width:      p.cfg.Width,
		Height:     p.cfg.Height,
		FPS:        p.cfg.FPS,
		SampleRate: p.cfg.SampleRate,
		Channels:   p.cfg.Channels,
		BGColor:    p.cfg.BGColor,
	})
	if err != nil {
		return err
	}

	if err := project.Write(proj, p.cfg.OutputProject); err != nil {
		return err
	}
	p.logger.Info().Str("project", p.cfg.OutputProject).Str("id", proj.ID).Msg("project written")
	return nil
}

func (p *Pipeline) render(ctx context.Context, sched *timeline.Schedule, photos []string, audioDuration float64) error {
	if err := probe.CheckTools(); err != nil {
		return err
	}

	workDir, err := p.workDir()
	if err != nil {
		return err
	}

	settings := render.Settings{
		Width:          p.cfg.Width,
		Height:         p.cfg.Height,
		FPS:            p.cfg.FPS,
		BGColor:        p.cfg.BGColor,
		TransitionType: p.cfg.TransitionType,
		VideoEncoder:   p.encoder(ctx),
		Quality:        p.cfg.Quality,
		SampleRate:     p.cfg.SampleRate,
		IntroDuration:  sched.Window.Start,
		OutroDuration:  audioDuration - sched.Window.End(),
		Title:          p.cfg.Title,
		Copyright:      p.cfg.Copyright,
		DrawText:       probe.CheckFilterSupport(ctx, "drawtext"),
	}

	if p.cfg.QRLink != "" {
		qrPath := filepath.Join(workDir, "qr.png")
		if err := qrcode.WriteFile(p.cfg.QRLink, qrcode.Medium, 512, qrPath); err != nil {
			return fmt.Errorf("generating QR code: %w", err)
		}
		settings.QRPath = qrPath
	}

	plan, err := render.BuildPlan(sched, photos, p.cfg.AudioPath, audioDuration, settings, workDir, p.cfg.OutputVideo)
	if err != nil {
		return err
	}

	executor, err := render.NewExecutor(p.logger)
	if err != nil {
		return err
	}
	return executor.Run(ctx, plan)
}

// openSource treats a .pdf input as an exported slide deck, one page
// per photo; anything else is a folder of images.
func (p *Pipeline) openSource(path string) (catalog.Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		exportDir, err := p.pageExportDir()
		if err != nil {
			return nil, err
		}
		return catalog.NewPDFSource(path, exportDir, p.cfg.DPI)
	}
	return catalog.NewFolderSource(path)
}

// pageExportDir picks where rasterized PDF pages land. A project file
// references the pages by path, so they must outlive the run: they go
// into a sibling directory next to the project file. A render consumes
// them before cleanup, so the per-run scratch dir is enough there.
func (p *Pipeline) pageExportDir() (string, error) {
	if p.cfg.OutputProject == "" {
		return p.workDir()
	}
	base := strings.TrimSuffix(filepath.Base(p.cfg.OutputProject), filepath.Ext(p.cfg.OutputProject))
	dir := filepath.Join(filepath.Dir(p.cfg.OutputProject), base+"_pages")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating page export directory: %w", err)
	}
	return dir, nil
}

func (p *Pipeline) encoder(ctx context.Context) string {
	if p.cfg.VideoEncoder != "" {
		return p.cfg.VideoEncoder
	}
	enc := probe.BestH264Encoder(ctx)
	if enc != "libx264" {
		p.logger.Info().Str("encoder", enc).Msg("hardware encoder detected")
	}
	return enc
}

func (p *Pipeline) workDir() (string, error) {
	if p.tempDir != "" {
		return p.tempDir, nil
	}
	dir, err := os.MkdirTemp("", "slidecast_")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	p.tempDir = dir
	return dir, nil
}

func (p *Pipeline) cleanup() {
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
		p.tempDir = ""
	}
}

// buildRequest translates the operator's configuration into a
// scheduling request. Overlap mode is used whenever a crossfade is
// requested and not disabled.
func buildRequest(cfg config.Config, audioDuration float64, photoCount int) timeline.Request {
	mode := timeline.ModeSequential
	if cfg.FadeDuration > 0 && cfg.TransitionType != "" && cfg.TransitionType != "none" {
		mode = timeline.ModeOverlapping
	}

	return timeline.Request{
		TotalDuration:      audioDuration,
		IntroDuration:      cfg.IntroDuration,
		OutroDuration:      cfg.OutroDuration,
		PhotoDuration:      cfg.PhotoDuration,
		TransitionDuration: cfg.FadeDuration,
		PhotoCount:         photoCount,
		Mode:               mode,
		AutoShrink:         cfg.AutoShrink,
	}
}
