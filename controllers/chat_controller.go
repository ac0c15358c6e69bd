package controllers

import (
	"chat-engine/middlewares"
	"chat-engine/models"
	"chat-engine/services"
	"chat-engine/utils"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ChatController adapts the HTTP surface onto the engine services. It only
// translates ids and renders structured results; all chat state lives
// behind the services.
type ChatController struct {
	Rooms    *services.RoomDirectory
	Messages *services.MessageStore
	Readers  *services.ReadTracker
	Unread   *services.UnreadCounter
	Lists    *services.RoomListProjector
	Users    *services.UserService
}

// MessageView is one annotated message as rendered to clients.
type MessageView struct {
	ID                uint      `json:"id"`
	SenderID          uint      `json:"sender_id"`
	SenderNickname    string    `json:"sender_nickname"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"created_at"`
	Mine              bool      `json:"mine"`
	ReadByAll         bool      `json:"read_by_all"`
	UnreadMemberCount *int      `json:"unread_member_count,omitempty"`
}

func (cc *ChatController) currentUser(c *gin.Context) (*models.User, bool) {
	id, ok := middlewares.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "login required")
		return nil, false
	}
	user, err := cc.Users.GetUserByID(id)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "login required")
		return nil, false
	}
	return user, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotAParticipant):
		utils.RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidOperation),
		errors.Is(err, services.ErrInvalidContent):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err.Error())
	default:
		log.Println("chat controller:", err)
		utils.RespondError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// OpenDirectRoom finds or creates the 1:1 room with the target user.
func (cc *ChatController) OpenDirectRoom(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	targetID, ok := parseUintParam(c, "targetUserId")
	if !ok {
		return
	}
	target, err := cc.Users.GetUserByID(targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	room, err := cc.Rooms.GetOrCreateDirectRoom(*me, *target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{
		"room_id":          room.ID,
		"partner_nickname": target.Nickname,
	}, nil)
}

// OpenRandomRoom pairs the caller with another user in a fresh ad hoc
// room. Invoked by the external matching collaborator once it has a pair.
func (cc *ChatController) OpenRandomRoom(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	targetID, ok := parseUintParam(c, "targetUserId")
	if !ok {
		return
	}
	target, err := cc.Users.GetUserByID(targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	room, err := cc.Rooms.CreateRandomRoom(*me, *target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"room_id": room.ID}, nil)
}

// GetMessages returns the room's history annotated for the caller. Only
// participants get through.
func (cc *ChatController) GetMessages(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseUintParam(c, "roomId")
	if !ok {
		return
	}
	room, err := cc.Rooms.GetRoom(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, err := cc.Readers.MyParticipant(room.ID, me.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	msgs, err := cc.Messages.ListOrdered(room.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	annos, err := cc.Unread.AnnotateAll(room, me.ID, msgs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	nicknames := map[uint]string{}
	views := make([]MessageView, len(msgs))
	for i, m := range msgs {
		nick, seen := nicknames[m.SenderID]
		if !seen {
			if sender, err := cc.Users.GetUserByID(m.SenderID); err == nil {
				nick = sender.Nickname
			} else {
				// Sender account is gone or unreadable; the message still renders.
				log.Println("resolve sender", m.SenderID, "for room", room.ID, ":", err)
				nick = "unknown"
			}
			nicknames[m.SenderID] = nick
		}
		views[i] = MessageView{
			ID:                m.ID,
			SenderID:          m.SenderID,
			SenderNickname:    nick,
			Content:           m.Content,
			CreatedAt:         m.CreatedAt,
			Mine:              annos[i].Mine,
			ReadByAll:         annos[i].ReadByAll,
			UnreadMemberCount: annos[i].UnreadMemberCount,
		}
	}
	utils.RespondSuccess(c, views, nil)
}

// SendMessage appends one message to the room. The response reports the
// fresh message as not yet read by anyone else.
func (cc *ChatController) SendMessage(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseUintParam(c, "roomId")
	if !ok {
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	room, err := cc.Rooms.GetRoom(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, err := cc.Readers.MyParticipant(room.ID, me.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	msg, err := cc.Messages.Append(room, *me, input.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, MessageView{
		ID:             msg.ID,
		SenderID:       me.ID,
		SenderNickname: me.Nickname,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
		Mine:           true,
		ReadByAll:      false,
	}, nil)
}

// MarkRoomRead advances the caller's read watermark.
func (cc *ChatController) MarkRoomRead(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseUintParam(c, "roomId")
	if !ok {
		return
	}

	var input struct {
		LastMessageID *uint `json:"last_message_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := cc.Rooms.GetRoom(roomID); err != nil {
		respondServiceError(c, err)
		return
	}

	// Clamp to the newest message so a caller cannot park their watermark
	// past the end of the log and hide messages that arrive later.
	markID := input.LastMessageID
	if markID != nil {
		last, err := cc.Messages.LastMessage(roomID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if last == nil {
			markID = nil
		} else if *markID > last.ID {
			clamped := last.ID
			markID = &clamped
		}
	}
	if err := cc.Readers.MarkRead(roomID, me.ID, markID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"ok": true}, nil)
}

// MyDirectRooms lists the caller's direct rooms, most recent first.
func (cc *ChatController) MyDirectRooms(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	items, err := cc.Lists.DirectRooms(*me)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, nil)
}

// MyGroupRooms lists the caller's group rooms, most recent first.
func (cc *ChatController) MyGroupRooms(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	items, err := cc.Lists.GroupRooms(*me)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, nil)
}

// UnreadCount returns the header badge: unread totals summed over the
// caller's direct rooms only.
func (cc *ChatController) UnreadCount(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	total, err := cc.Unread.BadgeTotal(me.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"total_unread": total}, nil)
}

// JoinGroup is the lifecycle hook the group-management collaborator calls
// when a user joins a group.
func (cc *ChatController) JoinGroup(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	groupID, ok := parseUintParam(c, "groupId")
	if !ok {
		return
	}

	var input struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := cc.Rooms.JoinGroupRoom(groupID, input.Title, *me); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"ok": true}, nil)
}

// LeaveGroup is the lifecycle hook for leaving a group. The last member
// out takes the room and its messages with them.
func (cc *ChatController) LeaveGroup(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	groupID, ok := parseUintParam(c, "groupId")
	if !ok {
		return
	}

	if err := cc.Rooms.LeaveGroupRoom(groupID, me.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"ok": true}, nil)
}

// DeleteRoom is the lifecycle hook the group-management collaborator calls
// when a group is deleted. Only group rooms can be torn down this way, and
// only by one of their own members; direct and random rooms never go
// through here. Participants, messages and the room go in one
// transactional unit.
func (cc *ChatController) DeleteRoom(c *gin.Context) {
	me, ok := cc.currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseUintParam(c, "roomId")
	if !ok {
		return
	}

	room, err := cc.Rooms.GetRoom(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !room.IsGroup() {
		respondServiceError(c, fmt.Errorf("room %d is not a group room: %w", roomID, services.ErrInvalidOperation))
		return
	}
	if _, err := cc.Readers.MyParticipant(room.ID, me.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := cc.Rooms.DeleteRoom(room.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"ok": true}, nil)
}
