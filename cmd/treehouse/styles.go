package main

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent lipgloss.Color = "#89b4fa"
	colorError  lipgloss.Color = "#f38ba8"
	colorMuted  lipgloss.Color = "241"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
	bodyStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
