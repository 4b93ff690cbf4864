package service

import "github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

// Authorization predicates consulted inline by every mutating or
// session-reading operation. A false result always surfaces as a
// forbidden error, never as silent filtering.

// IsHelperOwner reports whether userID owns the helper profile.
func IsHelperOwner(userID string, helper *model.HelperProfile) bool {
	return helper != nil && helper.UserID == userID
}

// IsRequestAddressee reports whether userID is the helper a request is
// addressed to. Only the addressee may answer it.
func IsRequestAddressee(userID string, request *model.ChatRequest) bool {
	return request != nil && request.HelperID == userID
}

// IsSessionParticipant reports whether userID is one of the session's two
// parties.
func IsSessionParticipant(userID string, session *model.ChatSession) bool {
	return session != nil && session.HasParticipant(userID)
}
