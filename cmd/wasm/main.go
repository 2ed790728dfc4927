//go:build js && wasm

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/mdi/siteplan/internal/background"
	"github.com/mdi/siteplan/internal/engine"
	"github.com/mdi/siteplan/internal/export"
	"github.com/mdi/siteplan/internal/interaction"
)

var (
	eng      *engine.Engine
	composer *export.Composer
)

func main() {
	eng = engine.NewEngine(engine.Options{})
	composer = export.NewComposer("MDI & Associates", "SF")

	// Create the engine API object
	sitePlan := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	sitePlan.Set("resize", js.FuncOf(resize))
	sitePlan.Set("addShape", js.FuncOf(addShape))
	sitePlan.Set("deleteActive", js.FuncOf(deleteActive))
	sitePlan.Set("setRotation", js.FuncOf(setRotation))
	sitePlan.Set("setMaxImpervious", js.FuncOf(setMaxImpervious))
	sitePlan.Set("pointerDown", js.FuncOf(pointerDown))
	sitePlan.Set("pointerMove", js.FuncOf(pointerMove))
	sitePlan.Set("pointerUp", js.FuncOf(pointerUp))
	sitePlan.Set("beginCalibration", js.FuncOf(beginCalibration))
	sitePlan.Set("loadBackground", js.FuncOf(loadBackground))
	sitePlan.Set("clearBackground", js.FuncOf(clearBackground))

	// --- Queries (frontend ← backend) ---
	sitePlan.Set("render", js.FuncOf(render))
	sitePlan.Set("getState", js.FuncOf(getState))
	sitePlan.Set("getSummary", js.FuncOf(getSummary))
	sitePlan.Set("exportPNG", js.FuncOf(exportPNG))

	// Register on global scope
	js.Global().Set("sitePlanEngine", sitePlan)

	// Signal that WASM is ready
	js.Global().Set("sitePlanWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// browserPrompt asks for a distance with window.prompt.
type browserPrompt struct{}

func (browserPrompt) PromptDistance(suggested float64) (float64, bool) {
	input := js.Global().Call("prompt", "Enter real-world distance between points (ft):", fmt.Sprint(suggested))
	if input.Type() != js.TypeString {
		return 0, false
	}
	return engine.ParseDistance(input.String())
}

func argString(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

// --- Command Handlers ---

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Resize(args[0].Float(), args[1].Float())
	return nil
}

// addShape(category, length, width, rotation) takes the raw form values.
func addShape(this js.Value, args []js.Value) interface{} {
	form := engine.FormInput{
		Category: argString(args, 0),
		Length:   argString(args, 1),
		Width:    argString(args, 2),
		Rotation: argString(args, 3),
	}
	s, err := eng.AddShape(form.Parse())
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "id": s.ID})
}

func deleteActive(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DeleteActive())
}

func setRotation(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.SetActiveRotation(engine.ParseRotation(argString(args, 0))))
}

func setMaxImpervious(this js.Value, args []js.Value) interface{} {
	eng.SetMaxImpervious(engine.ParseMaxImpervious(argString(args, 0)))
	return nil
}

// pointerDown resolves a completed calibration measurement on the spot, as
// the browser prompt is modal.
func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	out := eng.PointerDown(args[0].Float(), args[1].Float())
	if out == interaction.OutcomeCalibrationMeasured {
		if err := eng.ResolveCalibration(browserPrompt{}); engine.IsCalibrationFailure(err) {
			js.Global().Call("alert", "Invalid distance.")
		}
	}
	return js.ValueOf(out.String())
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.PointerMove(args[0].Float(), args[1].Float()))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	eng.PointerUp()
	return nil
}

func beginCalibration(this js.Value, args []js.Value) interface{} {
	eng.BeginCalibration()
	return nil
}

// loadBackground(uint8Array, name) decodes an image file's bytes.
func loadBackground(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing image bytes"})
	}
	data := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(data, args[0])

	bg, err := background.Decode(bytes.NewReader(data), argString(args, 1))
	if err != nil {
		js.Global().Call("alert", "There was an error loading the image.")
		return fail(err)
	}
	eng.SetBackground(bg)
	return ok()
}

func clearBackground(this js.Value, args []js.Value) interface{} {
	eng.ClearBackground()
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	out, err := eng.RenderJSON()
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(out)
}

func getState(this js.Value, args []js.Value) interface{} {
	out, err := eng.StateJSON()
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(out)
}

// exportPNG returns the composed export as a data URL.
func exportPNG(this js.Value, args []js.Value) interface{} {
	snap := export.Snapshot{
		Scene:      eng.Scene(),
		Background: eng.Background(),
		Summary:    eng.Summary(),
	}
	var buf bytes.Buffer
	if err := composer.WritePNG(&buf, snap); err != nil {
		return fail(err)
	}
	return js.ValueOf("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func getSummary(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.Summary())
	return js.ValueOf(string(data))
}
