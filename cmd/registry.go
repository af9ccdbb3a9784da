package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"storefront.GO/core/registry"
)

// Group is a help-output section. Commands are placed by the prefix before
// the first ":" in their name.
type Group struct {
	ID    string
	Title string
}

// GroupCustom collects commands whose prefix matches no built-in group.
const GroupCustom = "custom"

var groups = []Group{
	{ID: "catalog", Title: "Catalog:"},
	{ID: "products", Title: "Products:"},
	{ID: "snapshot", Title: "Snapshots:"},
	{ID: "cron", Title: "Cron:"},
	{ID: GroupCustom, Title: "Extensions:"},
}

// groupOf returns the group ID for a command name.
func groupOf(name string) string {
	prefix, _, ok := strings.Cut(name, ":")
	if !ok {
		return GroupCustom
	}
	for _, g := range groups {
		if g.ID == prefix {
			return g.ID
		}
	}
	return GroupCustom
}

// Register adds a command. Call from init() in custom packages. Panics if registry is locked.
func Register(c *cobra.Command) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd/registry: locked (register only during init before Apply)")
	}
	var list []*cobra.Command
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd); ok && v != nil {
		list = v.([]*cobra.Command)
	}
	list = append(list, c)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, list)
}

// Apply adds all registered commands to root and sorts every root command
// into its help group. Locks the cmd registry (immutable after).
func Apply() {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		return
	}
	var list []*cobra.Command
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd); ok && v != nil {
		list = v.([]*cobra.Command)
	}
	for _, c := range list {
		rootCmd.AddCommand(c)
	}
	applyGroups(rootCmd)
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}

func applyGroups(root *cobra.Command) {
	for _, g := range groups {
		if !root.ContainsGroup(g.ID) {
			root.AddGroup(&cobra.Group{ID: g.ID, Title: g.Title})
		}
	}
	for _, c := range root.Commands() {
		switch {
		case c.GroupID == "":
			c.GroupID = groupOf(c.Name())
		case !root.ContainsGroup(c.GroupID):
			// Preset by an extension; give it a section of its own.
			root.AddGroup(&cobra.Group{ID: c.GroupID, Title: c.GroupID + ":"})
		}
	}
}
