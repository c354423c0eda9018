// Package proto defines the line-oriented wire protocol spoken over /ws.
//
// A request is one text frame: "<command> [arg ...]". A reply is one text
// frame: "<reply> [payload]". Errors are "<ReplyError> <ErrorKind>".
package proto

// Command identifies a client request on the wire.
type Command int

const (
	CmdRenameUser Command = iota
	CmdCreatePersonalChat
	CmdCreateOpenGroup
	CmdCreateCloseGroup
	CmdDeleteChat
	CmdAddParticipant
	CmdRemoveParticipant
	CmdSendMessage
	CmdEditMessage
	CmdRemoveMessage
	CmdGetHistory
	CmdListUsers
	CmdListChats
	CmdListParticipants
	CmdSignUp
	CmdSignIn
	CmdSignOut

	commandCount
)

var commandNames = [...]string{
	CmdRenameUser:         "rename_user",
	CmdCreatePersonalChat: "create_personal_chat",
	CmdCreateOpenGroup:    "create_open_group",
	CmdCreateCloseGroup:   "create_close_group",
	CmdDeleteChat:         "delete_chat",
	CmdAddParticipant:     "add_participant",
	CmdRemoveParticipant:  "remove_participant",
	CmdSendMessage:        "send_message",
	CmdEditMessage:        "edit_message",
	CmdRemoveMessage:      "remove_message",
	CmdGetHistory:         "get_history",
	CmdListUsers:          "list_users",
	CmdListChats:          "list_chats",
	CmdListParticipants:   "list_participants",
	CmdSignUp:             "sign_up",
	CmdSignIn:             "sign_in",
	CmdSignOut:            "sign_out",
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	return c >= 0 && c < commandCount
}

func (c Command) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return commandNames[c]
}

// Reply identifies a server response on the wire.
type Reply int

const (
	ReplyUserCreated Reply = iota
	ReplyUserRenamed
	ReplyChatCreated
	ReplyChatDeleted
	ReplyParticipantAdded
	ReplyParticipantRemoved
	ReplyMessageSent
	ReplyMessageEdited
	ReplyMessageRemoved
	ReplyHistory
	ReplyUsersList
	ReplyChatsList
	ReplyParticipantsList
	ReplySignUpSuccess
	ReplySignUpFail
	ReplySignInSuccess
	ReplySignInFail
	ReplySignOutSuccess
	ReplyError
)

// ErrorKind is the payload of a ReplyError reply.
type ErrorKind int

const (
	ErrIncorrectFormat ErrorKind = iota
	ErrUnknownCommand
	ErrChatCreate
	ErrChatDelete
	ErrParticipantAdd
	ErrParticipantRemove
	ErrSendMessage
	ErrEditMessage
	ErrRemoveMessage
	ErrUserRename
)

var replyNames = [...]string{
	ReplyUserCreated:        "user_created",
	ReplyUserRenamed:        "user_renamed",
	ReplyChatCreated:        "chat_created",
	ReplyChatDeleted:        "chat_deleted",
	ReplyParticipantAdded:   "participant_added",
	ReplyParticipantRemoved: "participant_removed",
	ReplyMessageSent:        "message_sent",
	ReplyMessageEdited:      "message_edited",
	ReplyMessageRemoved:     "message_removed",
	ReplyHistory:            "history",
	ReplyUsersList:          "users_list",
	ReplyChatsList:          "chats_list",
	ReplyParticipantsList:   "participants_list",
	ReplySignUpSuccess:      "sign_up_success",
	ReplySignUpFail:         "sign_up_fail",
	ReplySignInSuccess:      "sign_in_success",
	ReplySignInFail:         "sign_in_fail",
	ReplySignOutSuccess:     "sign_out_success",
	ReplyError:              "error",
}

func (r Reply) String() string {
	if r < 0 || int(r) >= len(replyNames) {
		return "unknown"
	}
	return replyNames[r]
}

var errorKindNames = [...]string{
	ErrIncorrectFormat:   "incorrect_format",
	ErrUnknownCommand:    "unknown_command",
	ErrChatCreate:        "chat_create",
	ErrChatDelete:        "chat_delete",
	ErrParticipantAdd:    "participant_add",
	ErrParticipantRemove: "participant_remove",
	ErrSendMessage:       "send_message",
	ErrEditMessage:       "edit_message",
	ErrRemoveMessage:     "remove_message",
	ErrUserRename:        "user_rename",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return "unknown"
	}
	return errorKindNames[k]
}
