package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/model"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// spriteSize and spriteSpikes shape the particle sprite.
const (
	spriteSize   = 64
	spriteSpikes = 8
)

// BuildPath builds the tunnel centerline described by cfg.
//
// Parameters:
//   - cfg: the path section of the configuration
//
// Returns:
//   - path.Path: the centerline
//   - error: path.ErrTooFewPoints, an unknown axis order or curve type
func BuildPath(cfg config.PathConfig) (path.Path, error) {
	points, err := path.FromTriples(cfg.Points, cfg.AxisOrder)
	if err != nil {
		return nil, fmt.Errorf("tunnel path: %w", err)
	}
	curve, err := path.ParseCurveType(cfg.CurveType)
	if err != nil {
		return nil, fmt.Errorf("tunnel path: %w", err)
	}
	p, err := path.NewPath(points,
		path.WithCurveType(curve),
		path.WithTension(cfg.Tension),
		path.WithArcDivisions(cfg.ArcDivisions),
	)
	if err != nil {
		return nil, fmt.Errorf("tunnel path: %w", err)
	}
	return p, nil
}

// Build constructs every scene entity from cfg around the given path.
// The tube, wireframe, three particle clouds and both textures are generated concurrently on a
// worker pool; Build returns once all of them are done. All generation failures are joined into
// the returned error.
//
// Parameters:
//   - cfg: the validated configuration
//   - p: the tunnel centerline
//   - options: functional options to configure the build
//
// Returns:
//   - Scene: the constructed scene
//   - error: color parse or generation failures
func Build(cfg *config.Config, p path.Path, options ...SceneBuilderOption) (Scene, error) {
	if cfg == nil {
		return nil, errors.New("scene: nil config")
	}
	if p == nil {
		return nil, errors.New("scene: nil path")
	}
	opts := defaultBuildOptions()
	for _, opt := range options {
		opt(opts)
	}

	colors, err := parseColors(cfg)
	if err != nil {
		return nil, err
	}

	s := &scene{
		mu:       &sync.RWMutex{},
		name:     opts.name,
		path:     p,
		viewport: opts.viewport,
		ambient:  Ambient{Color: colors.ambient, Intensity: float32(cfg.Light.AmbientIntensity)},
		fog: Fog{
			Color: colors.fog,
			Near:  float32(cfg.Fog.Near),
			Far:   float32(cfg.Fog.Far),
		},
		bloom: Bloom{
			Threshold: float32(cfg.Bloom.Threshold),
			Strength:  float32(cfg.Bloom.Strength),
			Radius:    float32(cfg.Bloom.Radius),
		},
		tubeMat: TubeMaterial{
			Specular:  colors.specular,
			Shininess: float32(cfg.Tube.Shininess),
			Repeat:    [2]float32{float32(cfg.Tube.TextureRepeat[0]), float32(cfg.Tube.TextureRepeat[1])},
		},
		wireStyle:     LineStyle{Color: colors.wire, Opacity: float32(cfg.Wireframe.Opacity)},
		pointStyle:    PointStyle{Color: colors.particles, Size: float32(cfg.Particles.Size)},
		textureScroll: float32(cfg.Tube.TextureScroll),
	}

	rig := camera.NewCameraController(camera.WithPosition(mgl32.Vec3{0, 0, float32(cfg.Camera.RigStartZ)}))
	s.cam = camera.NewCamera(
		camera.WithController(rig),
		camera.WithFov(float32(cfg.Camera.FOVRadians())),
		camera.WithAspect(opts.viewport.Aspect()),
		camera.WithNear(float32(cfg.Camera.Near)),
		camera.WithFar(float32(cfg.Camera.Far)),
		camera.WithRotation(float32(cfg.Camera.InitialYaw), float32(cfg.Camera.InitialTilt)),
	)
	s.point = light.NewLight(
		light.WithColor(colors.light),
		light.WithIntensity(float32(cfg.Light.Intensity)),
		light.WithDistance(float32(cfg.Light.Distance)),
		light.WithDecay(float32(cfg.Light.Decay)),
	)

	if err := s.generate(cfg, colors, opts); err != nil {
		return nil, err
	}
	common.Logger().Info("scene built",
		"name", s.name,
		"tubeVertices", s.tube.VertexCount(),
		"wireSegments", s.wire.VertexCount()/2,
		"clouds", len(s.clouds),
	)
	return s, nil
}

// generate fans the heavy geometry and texture work out to a worker pool.
func (s *scene) generate(cfg *config.Config, colors sceneColors, opts *buildOptions) error {
	var (
		tubeMesh   *model.Mesh
		wireLines  *model.LineSegments
		clouds     [3]*model.PointCloud
		tubeTex    *common.TextureStagingData
		spriteTex  *common.TextureStagingData
		errs       [7]error
		cloudShape = [3]model.CloudBounds{model.CubeCloud, model.SheetCloud, model.SheetCloud}
	)

	jobs := []func() error{
		func() (err error) {
			tubeMesh, err = model.Tube(s.path, cfg.Tube.TubularSegments, cfg.Tube.Radius, cfg.Tube.RadialSegments)
			return err
		},
		func() error {
			inner, err := model.Tube(s.path, cfg.Wireframe.TubularSegments, cfg.Wireframe.Radius, cfg.Wireframe.RadialSegments)
			if err != nil {
				return fmt.Errorf("wireframe: %w", err)
			}
			wireLines = model.Edges(inner, cfg.Wireframe.ThresholdAngle)
			return nil
		},
		func() (err error) {
			tubeTex, err = texture.Tube(cfg.Tube.TexturePath, cfg.Tube.ProceduralSize, cfg.Tube.ProceduralSeed,
				colors.proc1, colors.proc2)
			return err
		},
		func() error {
			spriteTex = common.NewTextureStagingData(texture.Sprite(spriteSize, spriteSpikes, common.Color{R: 1, G: 1, B: 1, A: 1}))
			return nil
		},
	}
	for i := range clouds {
		jobs = append(jobs, func() error {
			clouds[i] = model.Cloud(cloudShape[i], cfg.Particles.Count, cfg.Particles.Seed+uint64(i))
			return nil
		})
	}

	pool := worker.NewDynamicWorkerPool(opts.computeWorkers, len(jobs), opts.poolIdle)
	defer pool.Stop()

	var wg sync.WaitGroup
	for id, job := range jobs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				errs[id] = job()
				return nil, errs[id]
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	s.tube = model.NewModel("tube", model.WithMesh(tubeMesh))
	s.wire = model.NewModel("wireframe", model.WithLines(wireLines))
	s.clouds = make([]model.Model, len(clouds))
	s.cloudSpin = make([][3]float32, len(clouds))
	for i, c := range clouds {
		s.clouds[i] = model.NewModel(fmt.Sprintf("cloud%d", i+1), model.WithPoints(c))
		spin := cfg.Particles.Spin[i]
		s.cloudSpin[i] = [3]float32{float32(spin[0]), float32(spin[1]), float32(spin[2])}
	}
	s.tubeTexture = tubeTex
	s.spriteTexture = spriteTex
	return nil
}

type sceneColors struct {
	specular, proc1, proc2 common.Color
	wire, light, ambient   common.Color
	fog, particles         common.Color
}

func parseColors(cfg *config.Config) (sceneColors, error) {
	var c sceneColors
	var errs []error
	parse := func(dst *common.Color, field, hex string) {
		v, err := common.ParseHexColor(hex)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
			return
		}
		*dst = v
	}
	parse(&c.specular, "tube.specular", cfg.Tube.Specular)
	parse(&c.proc1, "tube.proceduralColor1", cfg.Tube.ProceduralColor1)
	parse(&c.proc2, "tube.proceduralColor2", cfg.Tube.ProceduralColor2)
	parse(&c.wire, "wireframe.color", cfg.Wireframe.Color)
	parse(&c.light, "light.color", cfg.Light.Color)
	parse(&c.ambient, "light.ambientColor", cfg.Light.AmbientColor)
	parse(&c.fog, "fog.color", cfg.Fog.Color)
	parse(&c.particles, "particles.color", cfg.Particles.Color)
	if len(errs) > 0 {
		return c, fmt.Errorf("scene colors: %w", errors.Join(errs...))
	}
	return c, nil
}
