// Command instanced opens a window and draws instanced triangles into it
// until the window is closed or Escape is pressed.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/instanced"
	"github.com/gogpu/instanced/internal/config"
	"github.com/gogpu/instanced/internal/glfwwindow"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func init() {
	// GLFW and most presentation engines require the main OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		scenePath = flag.String("scene", "", "YAML scene file (default: two triangles on green)")
		writePath = flag.String("write-scene", "", "write the default scene to this file and exit")
		verbose   = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if *verbose {
		instanced.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if *writePath != "" {
		if err := config.Save(*writePath, config.Default()); err != nil {
			log.Fatalf("Failed to write scene: %v", err)
		}
		log.Printf("Default scene written to %s\n", *writePath)
		return
	}

	scene := config.Default()
	if *scenePath != "" {
		var err error
		if scene, err = config.Load(*scenePath); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}

	win, err := glfwwindow.Open(scene.Title, scene.Width, scene.Height)
	if err != nil {
		log.Fatalf("Failed to open window: %v", err)
	}
	defer win.Close()

	r, err := instanced.New(win, scene.Options()...)
	if err != nil {
		win.Close()
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Close()

	if err := r.Run(); err != nil {
		r.Close()
		win.Close()
		log.Fatalf("Render loop failed: %v", err)
	}
}
