package security

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-think/openssl"
	"github.com/klauspost/compress/gzip"
)

var ErrFrameKey = errors.New("frame key must be 16, 24 or 32 bytes")

// maxFrameSize 解压后的上限，防止压缩炸弹。
const maxFrameSize = 4 << 20

func Zip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnZip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, maxFrameSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxFrameSize {
		return nil, errors.New("frame too large")
	}
	return out, nil
}

func checkKey(key []byte) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	}
	return ErrFrameKey
}

// AesCBCEncrypt iv 为空时复用 key 的前 16 字节。
func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if len(iv) == 0 {
		iv = key[:16]
	}
	return openssl.AesCBCEncrypt(src, key, iv, padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if len(iv) == 0 {
		iv = key[:16]
	}
	return openssl.AesCBCDecrypt(src, key, iv, padding)
}

// FrameCodec 加密帧：json → AES-CBC(PKCS7) → gzip。
type FrameCodec struct {
	key []byte
	iv  []byte
}

func NewFrameCodec(key, iv string) (*FrameCodec, error) {
	if err := checkKey([]byte(key)); err != nil {
		return nil, err
	}
	c := &FrameCodec{key: []byte(key)}
	if iv != "" {
		c.iv = []byte(iv)
	}
	return c, nil
}

func (c *FrameCodec) Seal(plain []byte) ([]byte, error) {
	enc, err := AesCBCEncrypt(plain, c.key, c.iv, openssl.PKCS7_PADDING)
	if err != nil {
		return nil, err
	}
	return Zip(enc)
}

func (c *FrameCodec) Open(frame []byte) ([]byte, error) {
	enc, err := UnZip(frame)
	if err != nil {
		return nil, err
	}
	return AesCBCDecrypt(enc, c.key, c.iv, openssl.PKCS7_PADDING)
}
