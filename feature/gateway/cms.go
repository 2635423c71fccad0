package gateway

import (
	"encoding/asn1"
	"encoding/base64"
	"errors"
	"fmt"
)

var oidSignedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}

type contentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue
}

type signedData struct {
	Version          int
	DigestAlgorithms asn1.RawValue
	EncapContentInfo encapContentInfo
}

type encapContentInfo struct {
	EContentType asn1.ObjectIdentifier
	EContent     asn1.RawValue `asn1:"optional"`
}

// ExtractPayload returns the encapsulated content of a base64 encoded CMS
// SignedData message.
func ExtractPayload(cms string) ([]byte, error) {
	der, err := base64.StdEncoding.DecodeString(cms)
	if err != nil {
		return nil, fmt.Errorf("cms is not base64: %w", err)
	}

	var ci contentInfo
	if _, err := asn1.Unmarshal(der, &ci); err != nil {
		return nil, fmt.Errorf("malformed cms content info: %w", err)
	}
	if !ci.ContentType.Equal(oidSignedData) {
		return nil, fmt.Errorf("unexpected cms content type %s", ci.ContentType)
	}
	if ci.Content.Class != asn1.ClassContextSpecific || ci.Content.Tag != 0 {
		return nil, errors.New("cms content is not tagged [0]")
	}

	var sd signedData
	if _, err := asn1.Unmarshal(ci.Content.Bytes, &sd); err != nil {
		return nil, fmt.Errorf("malformed cms signed data: %w", err)
	}

	e := sd.EncapContentInfo.EContent
	if len(e.Bytes) == 0 {
		return nil, errors.New("cms carries no encapsulated content")
	}
	if e.Class != asn1.ClassContextSpecific || e.Tag != 0 {
		return nil, errors.New("cms encapsulated content is not tagged [0]")
	}

	var payload []byte
	if _, err := asn1.Unmarshal(e.Bytes, &payload); err != nil {
		return nil, fmt.Errorf("malformed cms payload: %w", err)
	}
	return payload, nil
}
