package actors

import "VillageRaid/internal/shared/actor/messages"

func ok(v any) messages.Reply {
	return messages.Reply{Value: v}
}

func fail(err error) messages.Reply {
	return messages.Reply{Err: err}
}
