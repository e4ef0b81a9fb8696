package lighting

import (
	"testing"

	"github.com/zurustar/keyframe/pkg/opcode"
)

func TestGetLights_Defaults(t *testing.T) {
	ambient, lights := GetLights([]opcode.Command{opcode.BoxCmd{}})
	if ambient != [3]int{150, 150, 100} {
		t.Errorf("expected default ambient, got %v", ambient)
	}
	if len(lights) != 0 {
		t.Errorf("expected no lights, got %d", len(lights))
	}
}

func TestGetLights_LastAmbientWins(t *testing.T) {
	commands := []opcode.Command{
		opcode.AmbientCmd{Color: opcode.Vec3{10, 20, 30}},
		opcode.BoxCmd{},
		opcode.AmbientCmd{Color: opcode.Vec3{40.9, 50.5, -3.7}},
	}

	ambient, _ := GetLights(commands)
	want := [3]int{40, 50, -3}
	if ambient != want {
		t.Errorf("expected %v, got %v", want, ambient)
	}
}

func TestGetLights_ColorLocationOrder(t *testing.T) {
	commands := []opcode.Command{
		opcode.LightCmd{Location: opcode.Vec3{0.5, 0.75, 1}, Color: opcode.Vec3{255, 255, 255}},
		opcode.SphereCmd{},
		opcode.LightCmd{Location: opcode.Vec3{-1, 0, 0}, Color: opcode.Vec3{999, -5, 0}},
	}

	_, lights := GetLights(commands)
	if len(lights) != 2 {
		t.Fatalf("expected 2 lights, got %d", len(lights))
	}

	if lights[0].Color != (opcode.Vec3{255, 255, 255}) || lights[0].Location != (opcode.Vec3{0.5, 0.75, 1}) {
		t.Errorf("unexpected first light: %+v", lights[0])
	}

	// out-of-range colors pass through untouched
	if lights[1].Color != (opcode.Vec3{999, -5, 0}) {
		t.Errorf("expected unclamped color, got %v", lights[1].Color)
	}
}
