package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	var (
		command   = flag.String("cmd", "column", "Command: column, ray, pick, stats, collide")
		seed      = flag.Int64("seed", 1, "World seed")
		generator = flag.String("generator", "perlin", "Generator: perlin, flat")
		flatY     = flag.Int("flat-height", 4, "Flat generator height")
		x         = flag.Float64("x", 0, "Origin X")
		y         = flag.Float64("y", 120, "Origin Y")
		z         = flag.Float64("z", 0, "Origin Z")
		dx        = flag.Float64("dx", 0, "Direction / movement X")
		dy        = flag.Float64("dy", -1, "Direction / movement Y")
		dz        = flag.Float64("dz", 0, "Direction / movement Z")
		limit     = flag.Float64("limit", 10, "Ray length limit")
		radius    = flag.Int("radius", 2, "Chunk radius to load around origin")
	)
	flag.Parse()

	gen, err := buildGenerator(*generator, *seed, int32(*flatY))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	origin := mgl32.Vec3{float32(*x), float32(*y), float32(*z)}
	dir := mgl32.Vec3{float32(*dx), float32(*dy), float32(*dz)}

	opts := world.DefaultOptions()
	opts.Spawn = origin
	w := world.NewWorld(gen, opts)
	loadAround(w, vec.ChunkCoordsFromPosition(origin), int32(*radius))

	switch *command {
	case "column":
		showColumn(os.Stdout, w, origin)
	case "ray":
		showRay(os.Stdout, w, origin, dir, float32(*limit))
	case "pick":
		showPick(os.Stdout, w, origin, dir, float32(*limit))
	case "stats":
		showStats(os.Stdout, w)
	case "collide":
		showCollide(os.Stdout, w, origin, dir)
	default:
		log.Fatalf("❌ Unknown command: %s", *command)
	}
}

func buildGenerator(name string, seed int64, flatHeight int32) (world.Generator, error) {
	switch strings.ToLower(name) {
	case "perlin":
		return world.NewPerlinGenerator(seed), nil
	case "flat":
		return world.FlatGenerator{Height: flatHeight, Material: block.Grass}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", name)
	}
}

// loadAround доводит до Meshed все чанки в квадрате radius вокруг center
func loadAround(w *world.World, center vec.ChunkCoords, radius int32) {
	for _, cc := range center.Range(radius) {
		w.RequestChunkStage(cc, world.StageMeshed)
	}
}

func showColumn(out io.Writer, w *world.World, origin mgl32.Vec3) {
	base := vec.FloorVec3(origin)
	fmt.Fprintf(out, "🧱 Column at x=%d z=%d\n", base.X, base.Z)

	type run struct {
		material block.Block
		solid    bool
		start    int32
	}
	var (
		top     int32 = -1
		current run
	)
	flush := func(end int32) {
		if current.solid {
			fmt.Fprintf(out, "   y %3d..%-3d %s\n", current.start, end, current.material)
		}
	}
	for yy := int32(0); yy < vec.WorldHeight; yy++ {
		bc, err := vec.TryGlobalToBlockCoords(vec.Vec3{X: base.X, Y: yy, Z: base.Z})
		if err != nil {
			break
		}
		b, solid, _ := w.GetBlock(bc)
		if solid {
			top = yy
		}
		if yy > 0 && solid == current.solid && b == current.material {
			continue
		}
		if yy > 0 {
			flush(yy - 1)
		}
		current = run{material: b, solid: solid, start: yy}
	}
	flush(vec.WorldHeight - 1)
	fmt.Fprintf(out, "📏 Top solid block: %d\n", top)
}

func showRay(out io.Writer, w *world.World, origin, dir mgl32.Vec3, limit float32) {
	fmt.Fprintf(out, "🔦 Ray from %v along %v (limit %.2f)\n", origin, dir, limit)
	rt := w.RayTravel(origin, dir, limit)
	for {
		hit, ok := rt.Next()
		if !ok {
			break
		}
		if !hit.InWorld {
			fmt.Fprintf(out, "   t=%7.4f  out of world\n", hit.Distance)
			continue
		}
		b, solid, loaded := w.GetBlock(hit.Coords)
		state := "air"
		switch {
		case !loaded:
			state = "unloaded"
		case solid:
			state = b.String()
		}
		fmt.Fprintf(out, "   t=%7.4f  %-14s face=%-5s %s\n", hit.Distance, hit.Coords, hit.Face, state)
	}
}

func showPick(out io.Writer, w *world.World, origin, dir mgl32.Vec3, reach float32) {
	res, ok := w.PickBlock(origin, dir, reach)
	if !ok {
		fmt.Fprintln(out, "🎯 Nothing within reach")
		return
	}
	fmt.Fprintf(out, "🎯 %s at %s, face %s, distance %.3f\n", res.Material, res.Block, res.Face, res.Distance)
	if target, ok := res.PlacementTarget(); ok {
		fmt.Fprintf(out, "   Placement target: %s\n", target)
	} else {
		fmt.Fprintln(out, "   Placement target: out of world")
	}
}

func showStats(out io.Writer, w *world.World) {
	loaded, meshed := w.ChunkCounts()
	fmt.Fprintf(out, "📊 Chunks: loaded=%d meshed=%d\n", loaded, meshed)

	var faces, blocks int
	for _, cc := range w.Store().Keys() {
		if fm, ok := w.ChunkFaces(cc); ok {
			faces += len(fm)
		}
		if n, ok := w.ChunkBlockCount(cc); ok {
			blocks += n
		}
	}
	fmt.Fprintf(out, "   Solid blocks: %d\n", blocks)
	fmt.Fprintf(out, "   Exposed faces: %d\n", faces)
}

func showCollide(out io.Writer, w *world.World, origin, move mgl32.Vec3) {
	box := world.Player{Position: origin}.HitBox()
	fmt.Fprintf(out, "📦 Hitbox min=%v max=%v, move %v\n", box.Min(), box.Max(), move)
	fmt.Fprintf(out, "   X: %.4f\n", w.FindCollisionX(box, move))
	fmt.Fprintf(out, "   Y: %.4f\n", w.FindCollisionY(box, move))
	fmt.Fprintf(out, "   Z: %.4f\n", w.FindCollisionZ(box, move))
}
