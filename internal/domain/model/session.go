package model

import "time"

// SessionVersion is the layout written by this build.
const SessionVersion = 1

// UserRecord is what the bot remembers about one user.
type UserRecord struct {
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Downloads int       `json:"downloads"`
}

// Session is the persisted bot state.
type Session struct {
	Version      int                  `json:"version"`
	UpdateOffset int                  `json:"update_offset"`
	Users        map[int64]UserRecord `json:"users"`
	SavedAt      time.Time            `json:"saved_at"`
}

func NewSession() *Session {
	return &Session{
		Version: SessionVersion,
		Users:   make(map[int64]UserRecord),
	}
}

// Clone returns a deep copy safe to hand to a repository.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Users = make(map[int64]UserRecord, len(s.Users))
	for id, u := range s.Users {
		cp.Users[id] = u
	}
	return &cp
}

// SessionStats is a read-only summary exposed on the admin API.
type SessionStats struct {
	Users        int       `json:"users"`
	Downloads    int       `json:"downloads"`
	UpdateOffset int       `json:"update_offset"`
	SavedAt      time.Time `json:"saved_at"`
}

func (s *Session) Stats() SessionStats {
	st := SessionStats{Users: len(s.Users), UpdateOffset: s.UpdateOffset, SavedAt: s.SavedAt}
	for _, u := range s.Users {
		st.Downloads += u.Downloads
	}
	return st
}
