// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wldui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for the fragment browser. Colors use
// ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// TypeAccent colors the fragment type column; RefAccent colors
	// reference values in the detail pane.
	TypeAccent lipgloss.Color
	RefAccent  lipgloss.Color
}

// DefaultTheme is a dark-background palette.
func DefaultTheme() Theme {
	return Theme{
		NormalText:         lipgloss.Color("252"),
		FaintText:          lipgloss.Color("243"),
		SelectedBackground: lipgloss.Color("24"),
		SelectedForeground: lipgloss.Color("255"),
		HeaderForeground:   lipgloss.Color("39"),
		BorderColor:        lipgloss.Color("238"),
		HelpText:           lipgloss.Color("241"),
		TypeAccent:         lipgloss.Color("114"),
		RefAccent:          lipgloss.Color("215"),
	}
}
