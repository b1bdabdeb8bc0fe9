// Package password реализует хеширование и проверку паролей на argon2id.
//
// Хеш хранится в PHC-формате $argon2id$v=19$m=...,t=...,p=...$salt$hash,
// поэтому параметры, с которыми он создан, всегда можно восстановить.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
)

// ErrMalformedHash возвращается, если сохранённый хеш не удаётся разобрать.
var ErrMalformedHash = errors.New("malformed password hash")

// Params параметры argon2id.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// DefaultParams рекомендация OWASP: m=19456, t=2, p=1.
var DefaultParams = Params{
	Time:      2,
	MemoryKiB: 19 * 1024,
	Threads:   1,
	KeyLen:    32,
	SaltLen:   16,
}

// ParamsFromConfig собирает Params из конфига, подставляя значения по умолчанию
// вместо нулевых.
func ParamsFromConfig(cfg config.Password) Params {
	p := Params{
		Time:      cfg.Time,
		MemoryKiB: cfg.MemoryKiB,
		Threads:   cfg.Threads,
		KeyLen:    cfg.KeyLen,
		SaltLen:   cfg.SaltLen,
	}
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.MemoryKiB == 0 {
		p.MemoryKiB = DefaultParams.MemoryKiB
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultParams.KeyLen
	}
	if p.SaltLen == 0 {
		p.SaltLen = DefaultParams.SaltLen
	}
	return p
}

// Hasher хеширует и проверяет пароли с заданными параметрами.
type Hasher struct {
	params Params
}

// NewHasher создаёт Hasher.
func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// GetHash принимает пароль пользователя и возвращает его argon2id-хеш.
//
// Соль случайная, поэтому два вызова с одним паролем дают разные хеши.
func (h *Hasher) GetHash(plain string) (string, error) {
	const op = "password.GetHash"

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: generating salt: %w", op, err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// CompareHash сравнивает argon2id-хеш с введённым паролем.
//
// Несовпадение пароля не ошибка: возвращается false, nil.
// Ошибка ErrMalformedHash возвращается только для битого хеша.
func (h *Hasher) CompareHash(encodedHash, plain string) (bool, error) {
	const op = "password.CompareHash"

	decoded, err := decode(encodedHash)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	key := argon2.IDKey([]byte(plain), decoded.salt,
		decoded.params.Time, decoded.params.MemoryKiB, decoded.params.Threads, uint32(len(decoded.key)))

	return subtle.ConstantTimeCompare(key, decoded.key) == 1, nil
}

// NeedsRehash сообщает, что хеш создан с другими параметрами и его стоит
// пересчитать при следующем успешном входе.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	decoded, err := decode(encodedHash)
	if err != nil {
		return true
	}
	p := decoded.params
	return p.MemoryKiB != h.params.MemoryKiB || p.Time != h.params.Time || p.Threads != h.params.Threads
}

type decodedHash struct {
	params Params
	salt   []byte
	key    []byte
}

func decode(encodedHash string) (*decodedHash, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: invalid format", ErrMalformedHash)
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return nil, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}
	if p.Time == 0 || p.MemoryKiB == 0 || p.Threads == 0 {
		return nil, fmt.Errorf("%w: zero parameter", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))

	return &decodedHash{params: p, salt: salt, key: key}, nil
}
