package main

import "github.com/charmbracelet/lipgloss"

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	fieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	totalStyle = lipgloss.NewStyle().Bold(true)
)
