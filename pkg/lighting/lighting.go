// Package lighting collects the ambient color and point lights declared by
// a command list.
package lighting

import "github.com/zurustar/keyframe/pkg/opcode"

// DefaultAmbient is used when the command list has no ambient command.
var DefaultAmbient = [3]int{150, 150, 100}

// Light is a point light.
type Light struct {
	Color    opcode.Vec3
	Location opcode.Vec3
}

// GetLights scans commands once. The last ambient command wins, its
// components truncated toward zero; every light command appends one Light
// in command order. Values are not range checked.
func GetLights(commands []opcode.Command) ([3]int, []Light) {
	ambient := DefaultAmbient
	var lights []Light

	for _, c := range commands {
		switch v := c.(type) {
		case opcode.AmbientCmd:
			ambient = [3]int{int(v.Color[0]), int(v.Color[1]), int(v.Color[2])}
		case opcode.LightCmd:
			lights = append(lights, Light{Color: v.Color, Location: v.Location})
		}
	}

	return ambient, lights
}
