package platform

import (
	"encoding/json"
	"fmt"
)

// tiktokUser is the user_info sub-object of a TikTok search entry.
type tiktokUser struct {
	UniqueID       string `json:"unique_id"`
	Nickname       string `json:"nickname"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	TotalFavorited int64  `json:"total_favorited"`
	CustomVerify   string `json:"custom_verify"`
	Signature      string `json:"signature"`
}

type tiktokEnvelope struct {
	Data struct {
		Users []struct {
			UserInfo *tiktokUser `json:"user_info"`
		} `json:"users"`
		// NextCursor is returned by the API but never followed; search is
		// single-page.
		NextCursor json.RawMessage `json:"nextCursor"`
	} `json:"data"`
}

type instagramUser struct {
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	IsVerified    bool   `json:"is_verified"`
	ProfilePicURL string `json:"profile_pic_url"`
}

type instagramEnvelope struct {
	Data struct {
		Users []struct {
			User *instagramUser `json:"user"`
		} `json:"users"`
	} `json:"data"`
}

type threadsNode struct {
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	FollowerCount int64  `json:"follower_count"`
	IsVerified    bool   `json:"is_verified"`
	ProfilePicURL string `json:"profile_pic_url"`
}

type threadsEnvelope struct {
	Data []struct {
		Node *threadsNode `json:"node"`
	} `json:"data"`
}

// Normalize maps one platform's raw search-response body onto records.
// Missing sub-fields default to the zero value (empty string, 0, false).
func Normalize(p Platform, body []byte) ([]Record, error) {
	switch p {
	case TikTok:
		return normalizeTikTok(body)
	case Instagram:
		return normalizeInstagram(body)
	case Threads:
		return normalizeThreads(body)
	default:
		return nil, fmt.Errorf("%q: %w", p, ErrUnsupported)
	}
}

func normalizeTikTok(body []byte) ([]Record, error) {
	var envelope tiktokEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(envelope.Data.Users))
	for _, entry := range envelope.Data.Users {
		// Entries without user_info are not user results; skip them.
		if entry.UserInfo == nil {
			continue
		}
		user := entry.UserInfo
		records = append(records, Record{
			FieldUsername:  user.UniqueID,
			FieldNickname:  user.Nickname,
			FieldFollowers: user.FollowerCount,
			FieldFollowing: user.FollowingCount,
			FieldLikes:     user.TotalFavorited,
			FieldVerified:  user.CustomVerify,
			FieldBio:       user.Signature,
		})
	}
	return records, nil
}

func normalizeInstagram(body []byte) ([]Record, error) {
	var envelope instagramEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(envelope.Data.Users))
	for _, entry := range envelope.Data.Users {
		user := entry.User
		if user == nil {
			// A malformed entry still yields a row of defaults.
			user = &instagramUser{}
		}
		records = append(records, Record{
			FieldUsername:      user.Username,
			FieldFullName:      user.FullName,
			FieldVerified:      user.IsVerified,
			FieldProfilePicURL: user.ProfilePicURL,
		})
	}
	return records, nil
}

func normalizeThreads(body []byte) ([]Record, error) {
	var envelope threadsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(envelope.Data))
	for _, entry := range envelope.Data {
		node := entry.Node
		if node == nil {
			node = &threadsNode{}
		}
		records = append(records, Record{
			FieldUsername:      node.Username,
			FieldFullName:      node.FullName,
			FieldFollowers:     node.FollowerCount,
			FieldVerified:      node.IsVerified,
			FieldProfilePicURL: node.ProfilePicURL,
		})
	}
	return records, nil
}
