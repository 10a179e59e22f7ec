package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"

	"hall-of-fame/core"
	"hall-of-fame/internal/assets"
	"hall-of-fame/internal/audio"
	"hall-of-fame/internal/config"
	"hall-of-fame/internal/controls"
	"hall-of-fame/internal/covers"
	"hall-of-fame/internal/frame"
	"hall-of-fame/internal/hall"
	"hall-of-fame/internal/jukebox"
	"hall-of-fame/internal/recordplayer"
	"hall-of-fame/internal/spotify"
	"hall-of-fame/internal/text"
	"hall-of-fame/internal/wallpaper"
	"hall-of-fame/platform"
	"hall-of-fame/renderer"
	"hall-of-fame/scene"
)

// app owns everything below the window. Fields are only touched on the
// main thread unless noted.
type app struct {
	cfg    config.Config
	window *platform.Window
	engine *renderer.RenderEngine
	scene  *scene.Scene
	queue  *frame.Queue

	// Safe for concurrent use.
	fetcher    *assets.Fetcher
	covers     *covers.Cache
	wallpapers *wallpaper.Manager

	halls    []*hall.Hall
	record   *recordplayer.Player
	audio    *audio.Player
	jukebox  *jukebox.Jukebox
	lock     *controls.PointerLock
	movement *controls.Movement
	picker   *controls.Picker

	loggingIn bool
}

func run(ctx context.Context, cfg config.Config) error {
	winCfg := platform.DefaultWindowConfig()
	winCfg.Width, winCfg.Height = cfg.Width, cfg.Height
	winCfg.Fullscreen = cfg.Fullscreen

	window, err := platform.NewWindow(winCfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	engine, err := renderer.NewRenderEngine(window)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	a := newApp(cfg, window, engine)
	defer a.audio.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.bootstrap(ctx)

	err = a.loop(ctx)
	cancel()
	a.queue.Close()
	return err
}

func newApp(cfg config.Config, window *platform.Window, engine *renderer.RenderEngine) *app {
	a := &app{
		cfg:     cfg,
		window:  window,
		engine:  engine,
		scene:   scene.NewScene(),
		queue:   frame.NewQueue(),
		fetcher: assets.NewFetcher(cfg.AssetBase),
	}
	a.fetcher.OnError(func(ref string, err error) {
		log.Printf("[Assets] %s: %v", ref, err)
	})
	a.covers = covers.NewCache(a.fetcher)
	a.wallpapers = wallpaper.NewManager(a.fetcher, wallpaper.DefaultEntries())

	a.scene.SkyColor = core.Color{R: 30.0 / 256, G: 26.0 / 256, B: 22.0 / 256, A: 1}
	a.scene.Ambient = scaled(core.ColorHex(0xdddddd), 0.6)

	w, h := window.WindowSize()
	camera := scene.NewCamera(mgl32.DegToRad(45), float32(w)/float32(max(h, 1)), 0.1, 4000)
	camera.SetPosition(mgl32.Vec3{0, 2, 10})
	a.scene.SetCamera(camera)
	engine.SetScene(a.scene)
	window.OnResize(engine.Resize)

	deps := hall.Deps{Scheduler: a.queue, Wallpapers: a.wallpapers, Covers: a.covers}
	for i, title := range []string{"Global", "México", "You"} {
		h := hall.New(hall.Config{
			Rotation: float32(i) * 2 * math.Pi / 3,
			Title:    title,
		}, deps)
		a.halls = append(a.halls, h)
		a.scene.AddNode(h.Root)
	}

	a.lock = controls.NewPointerLock(camera, window)
	a.movement = controls.NewMovement(a.lock)
	for _, h := range a.halls {
		a.movement.AddWalls(h.Walls()...)
	}
	a.scene.AddNode(a.movement.Crosshair)
	a.picker = controls.NewPicker(camera)

	a.record = recordplayer.New(camera, a.covers, a.queue)
	a.scene.AddNode(a.record.Root)

	speaker := audio.NewSpeaker(a.fetcher)
	a.audio = audio.NewPlayer(speaker, a.queue)
	a.audio.Volume = cfg.Volume
	a.jukebox = jukebox.New(a.record, a.audio)
	a.audio.OnSongEnd(a.jukebox.SongEnded)

	window.SetInputHandler(&controls.Input{
		Lock:     a.lock,
		Movement: a.movement,
		Picker:   a.picker,
		Size:     window.WindowSize,
		OnKey:    a.onKey,
	})
	return a
}

// sweepEvery is how many frames pass between releases of detached meshes.
const sweepEvery = 600

func (a *app) loop(ctx context.Context) error {
	clock := frame.NewLoop()
	status := newStatusLine(a.window.Title)
	for !a.window.ShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		a.window.PollEvents()
		a.queue.Drain()

		fc := clock.Tick()
		a.movement.Update(fc)
		for _, h := range a.halls {
			h.Update(fc)
		}
		a.record.Update(fc)

		if err := a.engine.Render(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		a.engine.Present()
		if fc.Frame%sweepEvery == 0 {
			a.engine.Sweep()
		}

		if title, ok := status.Frame(fc, len(a.fetcher.Failures())); ok {
			a.window.SetTitle(title)
		}
	}
	return nil
}

// bootstrap loads fonts, decorates the halls and fills them with tracks.
// It runs on its own goroutine; scene changes go through the queue.
func (a *app) bootstrap(ctx context.Context) {
	eng, err := a.loadText()
	if err != nil {
		log.Printf("[Hall] fonts: %v", err)
		return
	}
	for _, h := range a.halls {
		h.UseText(eng)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, h := range a.halls {
		g.Go(func() error {
			return ignoreAssetErrors(errors.Join(h.SetWallpaper(gctx, i), h.SetFloor(gctx), h.DrawEndWall(gctx)))
		})
	}
	g.Go(func() error { return ignoreAssetErrors(a.mountCenterFloor(gctx)) })
	g.Go(func() error { return ignoreAssetErrors(a.record.Load(gctx, a.fetcher)) })
	if err := g.Wait(); err != nil {
		log.Printf("[Hall] setup: %v", err)
		return
	}

	data, err := spotify.Load(ctx, spotify.NewClient(a.cfg.Token), a.fetcher)
	if err != nil {
		log.Printf("[Spotify] %v", err)
		return
	}
	jukebox.Stock(ctx, data, a)
}

// ignoreAssetErrors logs failures that already have a placeholder in the
// scene and keeps the rest.
func ignoreAssetErrors(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, frame.ErrClosed) {
		return err
	}
	log.Printf("[Hall] %v", err)
	return nil
}

func (a *app) loadText() (*text.Engine, error) {
	if a.cfg.FontRegular == "" {
		fonts, err := text.DefaultFonts()
		if err != nil {
			return nil, err
		}
		return text.NewEngine(fonts), nil
	}
	regular, err := os.ReadFile(a.cfg.FontRegular)
	if err != nil {
		return nil, err
	}
	semibold := regular
	if a.cfg.FontSemibold != "" {
		if semibold, err = os.ReadFile(a.cfg.FontSemibold); err != nil {
			return nil, err
		}
	}
	fonts, err := text.LoadFonts(regular, semibold)
	if err != nil {
		return nil, err
	}
	return text.NewEngine(fonts), nil
}

// mountCenterFloor lays the triangle joining the three hall mouths.
func (a *app) mountCenterFloor(ctx context.Context) error {
	mesh := scene.CreateRegularPolygon(2*hall.Apothem(), 3)
	mat, err := a.wallpapers.CenterFloor(ctx)
	if err != nil {
		mat = scene.NewMaterial("center-floor", scene.DefaultMaterial().Albedo)
	}
	mesh.Material = mat
	node := scene.NewMeshNode("center-floor", mesh)
	node.RotateX(-math.Pi / 2)
	if doErr := a.queue.Do(ctx, func() { a.scene.AddNode(node) }); doErr != nil {
		return doErr
	}
	return err
}

// fill places tracks in h and makes their slots clickable.
func (a *app) fill(ctx context.Context, h *hall.Hall, tracks []spotify.Track) {
	slots, err := h.SetTracks(ctx, tracks)
	if err != nil {
		log.Printf("[Hall] %s: %v", h.Config().Title, err)
	}
	n := min(len(slots), len(tracks))
	a.queue.Post(func() {
		for _, s := range h.Slots() {
			a.picker.Unregister(s)
		}
		for i := 0; i < n; i++ {
			track := tracks[i]
			a.picker.Register(slots[i], func() { a.jukebox.Toggle(&track) })
		}
	})
}

// Fill puts tracks in the hall at index, as decided by jukebox.Stock.
func (a *app) Fill(ctx context.Context, index int, tracks []spotify.Track) {
	a.fill(ctx, a.halls[index], tracks)
}

func (a *app) onKey(k core.Key) {
	if k == core.KeyM {
		a.jukebox.Stop()
	}
}

// OfferLogin mounts the login button in the personal hall.
func (a *app) OfferLogin(ctx context.Context) {
	personal := a.halls[jukebox.Personal]
	button, err := personal.SetLoginButton(ctx)
	if err != nil {
		log.Printf("[Hall] login button: %v", err)
		return
	}
	a.queue.Post(func() {
		a.picker.Register(button, func() {
			if a.loggingIn {
				return
			}
			a.loggingIn = true
			go a.login(ctx, button)
		})
	})
}

// login completes the implicit grant through the loopback callback and
// swaps the login button for the personal top ten.
func (a *app) login(ctx context.Context, button *scene.Node) {
	defer a.queue.Post(func() { a.loggingIn = false })

	srvCtx, stop := context.WithCancel(ctx)
	defer stop()
	srv := spotify.NewLoginServer(a.cfg.LoginAddr)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(srvCtx) }()

	authURL := spotify.AuthorizeURL(a.cfg.ClientID, a.cfg.RedirectURI(), spotify.ScopeUserTopRead)
	if err := browser.OpenURL(authURL); err != nil {
		log.Printf("[Spotify] open browser: %v; visit %s", err, authURL)
	}

	var token string
	select {
	case token = <-srv.Token():
	case err := <-served:
		log.Printf("[Spotify] login server: %v", err)
		return
	case <-ctx.Done():
		return
	}

	tracks, err := spotify.NewClient(token).TopTracks(ctx)
	if err != nil {
		log.Printf("[Spotify] top tracks: %v", err)
		return
	}
	personal := a.halls[jukebox.Personal]
	if err := personal.ClearLoginButton(ctx); err != nil {
		log.Printf("[Hall] %v", err)
		return
	}
	a.queue.Post(func() { a.picker.Unregister(button) })
	a.fill(ctx, personal, tracks)
}

func scaled(c core.Color, k float32) core.Color {
	return core.Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}
