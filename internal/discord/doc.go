// Package discord is the presentation layer: it turns gateway events into
// service calls and renders the results back into the channel.
//
// The package has three surfaces:
//
//   - Handler consumes MessageCreate events for the prefix command and its
//     sub-verbs, and InteractionCreate events for the menu buttons
//   - GuildRoleManager adapts the gateway API to the service layer's
//     RoleManager contract and the role guard's sanitizer contract
//   - MentionCollector waits for a command invoker to mention the member a
//     slot toggle should apply to
//
// Gateway access goes through a narrow session interface so tests can run
// against a mock instead of a live connection; *discordgo.Session satisfies
// it. User-facing reply strings are Portuguese, matching the communities the
// bot serves.
package discord
