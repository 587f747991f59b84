// Package domain contains the core entity types of the news agent:
// ingested feed items, conversational tasks with their lifecycle states,
// and the closed set of intents a user command can classify into.
// Types here carry their own validation and hold no references to
// storage, transport, or external services.
package domain
