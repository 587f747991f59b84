// Package agent implements the conversational task manager: it turns an
// incoming user message into a tracked task, classifies the command into
// an intent, runs the matching skill against the item store or the
// generation service, and finalizes the task's lifecycle state. Skill
// failures always land the task in the failed state with a conversational
// agent message; they never escape the manager as errors.
package agent
