package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tiktokFixture = `{
  "data": {
    "users": [
      {
        "user_info": {
          "unique_id": "charlidamelio",
          "nickname": "charli d'amelio",
          "follower_count": 151300000,
          "following_count": 1288,
          "total_favorited": 11600000000,
          "custom_verify": "verified account",
          "signature": "no dream is too big"
        }
      },
      {"extra": {"ad": true}},
      {
        "user_info": {
          "unique_id": "newuser"
        }
      }
    ],
    "nextCursor": 30
  }
}`

func TestNormalizeTikTok(t *testing.T) {
	records, err := Normalize(TikTok, []byte(tiktokFixture))
	require.NoError(t, err)
	require.Len(t, records, 2, "entries without user_info are skipped")

	first := records[0]
	assert.Equal(t, "charlidamelio", first[FieldUsername])
	assert.Equal(t, "charli d'amelio", first[FieldNickname])
	assert.Equal(t, int64(151300000), first[FieldFollowers])
	assert.Equal(t, int64(1288), first[FieldFollowing])
	assert.Equal(t, int64(11600000000), first[FieldLikes])
	assert.Equal(t, "verified account", first[FieldVerified])
	assert.Equal(t, "no dream is too big", first[FieldBio])
	assert.False(t, first.Has(FieldFullName))
	assert.False(t, first.Has(FieldProfilePicURL))

	sparse := records[1]
	assert.Equal(t, "newuser", sparse[FieldUsername])
	assert.Equal(t, "", sparse[FieldNickname])
	assert.Equal(t, int64(0), sparse[FieldFollowers])
	assert.Equal(t, int64(0), sparse[FieldFollowing])
	assert.Equal(t, int64(0), sparse[FieldLikes])
	assert.Equal(t, "", sparse[FieldVerified])
	assert.Equal(t, "", sparse[FieldBio])
}

const instagramFixture = `{
  "data": {
    "users": [
      {
        "user": {
          "username": "instagram",
          "full_name": "Instagram",
          "is_verified": true,
          "profile_pic_url": "https://cdn.example/ig.jpg"
        }
      },
      {"position": 1}
    ]
  }
}`

func TestNormalizeInstagram(t *testing.T) {
	records, err := Normalize(Instagram, []byte(instagramFixture))
	require.NoError(t, err)
	require.Len(t, records, 2, "entries without a user object still yield defaults")

	first := records[0]
	assert.Equal(t, "instagram", first[FieldUsername])
	assert.Equal(t, "Instagram", first[FieldFullName])
	assert.Equal(t, true, first[FieldVerified])
	assert.Equal(t, "https://cdn.example/ig.jpg", first[FieldProfilePicURL])
	assert.False(t, first.Has(FieldFollowers))

	defaults := records[1]
	assert.Equal(t, "", defaults[FieldUsername])
	assert.Equal(t, "", defaults[FieldFullName])
	assert.Equal(t, false, defaults[FieldVerified])
	assert.Equal(t, "", defaults[FieldProfilePicURL])
}

const threadsFixture = `{
  "data": [
    {
      "node": {
        "username": "zuck",
        "full_name": "Mark Zuckerberg",
        "follower_count": 1234567,
        "is_verified": true,
        "profile_pic_url": "https://cdn.example/zuck.jpg"
      }
    },
    {
      "node": {
        "username": "quiet"
      }
    }
  ]
}`

func TestNormalizeThreads(t *testing.T) {
	records, err := Normalize(Threads, []byte(threadsFixture))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "zuck", first[FieldUsername])
	assert.Equal(t, "Mark Zuckerberg", first[FieldFullName])
	assert.Equal(t, int64(1234567), first[FieldFollowers])
	assert.Equal(t, true, first[FieldVerified])

	sparse := records[1]
	assert.Equal(t, "quiet", sparse[FieldUsername])
	assert.Equal(t, int64(0), sparse[FieldFollowers])
	assert.Equal(t, false, sparse[FieldVerified])
}

func TestNormalizeEmptyBodies(t *testing.T) {
	for _, p := range All() {
		records, err := Normalize(p, []byte(`{}`))
		require.NoError(t, err, p)
		assert.Empty(t, records, p)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	_, err := Normalize(TikTok, []byte(`{"data": "nope"`))
	assert.Error(t, err)

	_, err = Normalize(Threads, []byte(`{"data": {"users": []}}`))
	assert.Error(t, err, "threads data is an array, an object should fail decoding")
}

func TestNormalizeUnsupported(t *testing.T) {
	_, err := Normalize(Platform("facebook"), []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParse(t *testing.T) {
	p, err := Parse(" TikTok ")
	require.NoError(t, err)
	assert.Equal(t, TikTok, p)

	_, err = Parse("facebook")
	assert.ErrorIs(t, err, ErrUnsupported)
}
