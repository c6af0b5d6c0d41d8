// Package notifications delivers pipeline events to an ntfy topic.
package notifications
