package main

import (
	"context"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arcbeam/photonmap/internal/config"
	"github.com/arcbeam/photonmap/internal/telemetry"
	"github.com/arcbeam/photonmap/pkg/photon"
	"github.com/arcbeam/photonmap/pkg/radiance"
	"github.com/arcbeam/photonmap/pkg/renderer"
	"github.com/arcbeam/photonmap/pkg/scene"
)

// demoScenes maps the `photonmap demo <name>` argument to a scene
// constructor (spec 4.H's fixed demo set: cornell, caustic, occluder,
// mirror).
var demoScenes = map[string]func() *scene.Scene{
	"cornell":  scene.NewCornellBox,
	"caustic":  scene.NewCausticScene,
	"occluder": scene.NewOccluderScene,
	"mirror":   scene.NewMirrorScene,
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "photonmap",
		Short: "A two-pass photon-mapping renderer",
	}
	root.AddCommand(newRenderCmd(), newDemoCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene document with photon mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, configPath, "")
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML scene configuration document")
	return cmd
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "demo [cornell|caustic|occluder|mirror]",
		Short:     "Render one of the built-in demo scenes",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"cornell", "caustic", "occluder", "mirror"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, "", args[0])
		},
	}
	return cmd
}

func runRender(cmd *cobra.Command, configPath, demoName string) error {
	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return err
	}

	runID := uuid.New()

	logger, err := telemetry.NewLogger(cfg.Render.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()
	logger.Infow("render starting", "runID", runID, "scene", cfg.Render.Scene)

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	if cfg.Render.MetricsAddr != "" {
		go serveMetrics(cfg.Render.MetricsAddr, reg, logger)
	}

	sceneName := cfg.Render.Scene
	if demoName != "" {
		sceneName = demoName
	}
	newScene, ok := demoScenes[sceneName]
	if !ok {
		return fmt.Errorf("unknown scene %q, want one of cornell, caustic, occluder, mirror", sceneName)
	}
	s := newScene()

	fmt.Fprintf(cmd.OutOrStdout(), "Pass 1: tracing photons for %q...\n", sceneName)
	tracer := photon.NewTracer(cfg.PhotonMap)
	tracer.Logger = logger
	tracer.Metrics = metrics

	maps, err := tracer.Run(context.Background(), s)
	if err != nil {
		return fmt.Errorf("photon tracing: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Pass 2: estimating radiance...")
	estimator := radiance.NewEstimator(cfg.PhotonMap, maps)
	estimator.Logger = logger
	estimator.Metrics = metrics

	tr := &renderer.TileRenderer{
		Scene:           s,
		Camera:          scene.DefaultCamera(float64(cfg.Render.Width) / float64(cfg.Render.Height)),
		Estimator:       estimator,
		Width:           cfg.Render.Width,
		Height:          cfg.Render.Height,
		SamplesPerPixel: 32,
	}

	start := time.Now()
	img, err := tr.Render(context.Background(), uint64(time.Now().UnixNano()))
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered in %v\n", time.Since(start))

	out, err := os.Create(cfg.Render.Output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", cfg.Render.Output)

	if err := writeManifest(cfg.Render.Output+".manifest.yaml", runID, sceneName, cfg, time.Since(start)); err != nil {
		return fmt.Errorf("writing render manifest: %w", err)
	}
	return nil
}

// manifest records the settings and provenance of a single render
// alongside its PNG output, so a render can be reproduced or audited
// without re-deriving the config that produced it.
type manifest struct {
	RunID      string        `yaml:"run_id"`
	Scene      string        `yaml:"scene"`
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	RenderTime time.Duration `yaml:"render_time"`
	PhotonMap  photon.Config `yaml:"photon_map"`
}

func writeManifest(path string, runID uuid.UUID, sceneName string, cfg *config.Config, elapsed time.Duration) error {
	m := manifest{
		RunID:      runID.String(),
		Scene:      sceneName,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		RenderTime: elapsed,
		PhotonMap:  cfg.PhotonMap,
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *telemetry.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warnw("metrics server stopped", "error", err)
	}
}
