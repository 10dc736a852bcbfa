package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "Bind the rig and report what was found",
	RunE:  runBind,
}

func runBind(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	m, err := loadScene()
	if err != nil {
		return err
	}

	t := rig.Bind(m)

	for _, s := range t.Segments() {
		printSegment(s)
	}

	for _, id := range rig.AllLegs {
		l := t.Legs[id]
		if l.Complete() {
			printStatus("✓", fmt.Sprintf("leg %s will be solved", id), color.FgGreen)
		} else {
			printStatus("✗", fmt.Sprintf("leg %s is incomplete", id), color.FgRed)
		}
	}

	com, mass := rig.CenterOfMass(t.Massive())
	if mass == 0 {
		printStatus("⚠", "no mass", color.FgYellow)
	} else {
		printStatus("✓", fmt.Sprintf("mass %.2f at %v", mass, com), color.FgGreen)
	}

	return nil
}

func printSegment(s rig.Segment) {
	if !s.Present() {
		printStatus("✗", s.Name, color.FgRed)
		return
	}

	caps := []string{}
	if s.HasActuator() {
		caps = append(caps, "actuator")
	}

	if s.HasRestPose() {
		caps = append(caps, "rest")
	}

	if s.HasBody() {
		caps = append(caps, "body")
	}

	printStatus("✓", fmt.Sprintf("%-12s %s", s.Name, strings.Join(caps, ",")), color.FgGreen)
}

func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
