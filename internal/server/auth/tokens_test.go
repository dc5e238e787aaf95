package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/server/models"
)

var testUser = &models.User{ID: 42, FirstName: "Ada", LastName: "Lovelace", Email: "a@x.com", Role: "User"}

func newIssuer(secret string) *TokenIssuer {
	return NewTokenIssuer([]byte(secret), "InternPortal", "InternPortalUsers", 2*time.Hour)
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	fixed := time.Now().Truncate(time.Second)
	ti := newIssuer("super-secret")
	ti.now = func() time.Time { return fixed }

	tok, err := ti.Issue(testUser)
	require.NoError(t, err)

	c, err := ti.Parse(tok)
	require.NoError(t, err)

	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "a@x.com", c.Email)
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "User", c.Role)
	assert.Equal(t, "InternPortal", c.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"InternPortalUsers"}, c.Audience)
	assert.Equal(t, fixed.Unix(), c.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(2*time.Hour).Unix(), c.ExpiresAt.Unix())

	id, err := c.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	ti := newIssuer("secret")
	ti.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	tok, err := ti.Issue(testUser)
	require.NoError(t, err)

	ti.now = time.Now
	_, err = ti.Parse(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParse_Rejections(t *testing.T) {
	t.Parallel()

	good := newIssuer("right-secret")
	tok, err := good.Issue(testUser)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "InternPortal",
			Audience:  jwt.ClaimStrings{"InternPortalUsers"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noneTok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "InternPortal",
			Audience:  jwt.ClaimStrings{"InternPortalUsers"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	hs512Tok, err := hs512.SignedString([]byte("right-secret"))
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "42",
			Issuer:   "InternPortal",
			Audience: jwt.ClaimStrings{"InternPortalUsers"},
		},
	})
	noExpTok, err := noExp.SignedString([]byte("right-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		issuer *TokenIssuer
		token  string
	}{
		{"wrong secret", newIssuer("wrong-secret"), tok},
		{"wrong issuer", NewTokenIssuer([]byte("right-secret"), "Other", "InternPortalUsers", time.Hour), tok},
		{"wrong audience", NewTokenIssuer([]byte("right-secret"), "InternPortal", "Others", time.Hour), tok},
		{"alg none", good, noneTok},
		{"alg HS512", good, hs512Tok},
		{"missing exp", good, noExpTok},
		{"malformed", good, "not.a.jwt"},
		{"empty", good, ""},
		{"tampered payload", good, tamper(tok)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.issuer.Parse(tt.token)
			require.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestClaims_UserID_BadSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func tamper(tok string) string {
	parts := strings.Split(tok, ".")
	parts[1] = parts[1] + "A"
	return strings.Join(parts, ".")
}
