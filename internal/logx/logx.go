package logx

import (
	"context"

	"pkt.systems/addschat/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	conversationKey contextKey = iota
	modelKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithConversation annotates the logger with the conversation id if present.
func WithConversation(ctx context.Context, id schema.ConversationID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if id != "" {
		if current, ok := ctx.Value(conversationKey).(schema.ConversationID); ok && current == id {
			return log
		}
		log = log.With("conversation", id)
	}
	return log
}

// WithConversationModel annotates the logger with conversation and model.
func WithConversationModel(ctx context.Context, id schema.ConversationID, model schema.ModelID) pslog.Logger {
	log := WithConversation(ctx, id)
	if model != "" {
		if current, ok := ctx.Value(modelKey).(schema.ModelID); ok && current == model {
			return log
		}
		log = log.With("model", model)
	}
	return log
}

// WithPreset annotates the logger with the active preset when set.
func WithPreset(log pslog.Logger, preset schema.PresetName) pslog.Logger {
	if preset != "" {
		log = log.With("preset", preset)
	}
	return log
}

// ContextWithConversation stores the conversation marker on the context for
// log de-duplication.
func ContextWithConversation(ctx context.Context, id schema.ConversationID) context.Context {
	if ctx == nil || id == "" {
		return ctx
	}
	return context.WithValue(ctx, conversationKey, id)
}

// ContextWithModel stores the model marker on the context.
func ContextWithModel(ctx context.Context, model schema.ModelID) context.Context {
	if ctx == nil || model == "" {
		return ctx
	}
	return context.WithValue(ctx, modelKey, model)
}

// ContextWithConversationLogger attaches the logger and conversation/model
// markers to the context.
func ContextWithConversationLogger(ctx context.Context, log pslog.Logger, id schema.ConversationID, model schema.ModelID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithModel(ContextWithConversation(ctx, id), model)
}
