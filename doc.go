// Package cellfx is a character-grid rendering engine with game-style
// effects for [Ebitengine].
//
// An [Engine] owns named [Window]s. Each window is a grid of character cells
// backed by a CPU pixel [Surface], and owns the sprites, effect particles,
// emitters and lights drawn into it. Every frame the engine updates them,
// lets the client draw, runs the sprite, lighting and bloom passes per
// window, and composites all windows into one frame with camera parallax.
//
// # Quick start
//
//	e, err := cellfx.New(cellfx.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	e.Root().OnDraw = func(w *cellfx.Window) {
//		w.PutString(2, 1, "hello", cellfx.ColorYellow, cellfx.Color{})
//	}
//	cellfx.Run(e, cellfx.RunConfig{Title: "hello", Scale: 2})
//
// For headless use, call [Engine.Step] yourself and read [Engine.Frame].
//
// # Frame pipeline
//
// [Engine.Step] runs, in order: the test script, the OnUpdate hook, tweens,
// the camera, every window's Update (emitters spawn, entities move, dead
// ones are dropped), the auto clear and OnDraw hooks, the per-window post
// pass (sprites in z order, lighting, bloom) and finally compositing in
// window z order. The post pass is independent per window and runs
// concurrently when [Engine.Parallel] is set.
//
// # Sprites and particles
//
// [Sprite] has a logical cell position and a visual pixel position that
// eases toward it at LerpSpeed cells per second, plus named [Animation]s
// with per-frame pixel offsets. [EffectSprite] is a free-moving particle
// with velocity, frame-rate independent drag and fade or hard expiry. An
// [Emitter] spawns effect sprites into its window.
//
// # Lighting
//
// [Light]s are accumulated into a per-cell [LightMap] every frame, starting
// from the ambient level. Shadow-casting lights use [ComputeVisibleCells],
// with every non-space cell of a light-blocking entity acting as a wall.
// The map multiplies the window surface before bloom.
//
// # Bloom
//
// [ApplyBloom] thresholds the surface, adds emissive content, blurs it at
// doubling scales and adds the result back Intensity times.
//
// # Camera
//
// The [Camera] shifts every non-fixed window by its position times
// [Camera.ParallaxFactor] of the window depth. Fixed windows are UI
// overlays and never move.
//
// [Ebitengine]: https://ebitengine.org
package cellfx
