package ctxt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/fhecore/bgvboot/ringops"
	"github.com/zeebo/blake3"
)

// eyeCatcher headers/footers bracket every top-level serialized type, per
// spec §6 "Serialization format": an 8-byte eye-catcher, a version marker,
// and a matching footer. Grounded on HElib's EyeCatcher (Ctxt.h) and
// expressed with lattigo's WriteTo/ReadFrom/MarshalBinary method set (see
// core/rlwe/gadgetciphertext.go).
var (
	ctxtBeginCatcher = [8]byte{'C', 'T', 'X', 'T', '_', 'B', 'G', 'N'}
	ctxtEndCatcher   = [8]byte{'C', 'T', 'X', 'T', '_', 'E', 'N', 'D'}
)

const serializationVersion uint32 = 1

// WriteTo serializes c to w with an eye-catcher header/footer and a BLAKE3
// digest of the payload so a truncated or corrupted stream is caught
// deterministically (spec §6, §7 ErrIO).
func (c *Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
		defer bw.Flush()
	}

	payload, err := c.encodePayload()
	if err != nil {
		return 0, fmt.Errorf("cannot WriteTo: %w", err)
	}
	digest := blake3.Sum256(payload)

	var total int64
	write := func(b []byte) error {
		m, err := bw.Write(b)
		total += int64(m)
		return err
	}

	if err = write(ctxtBeginCatcher[:]); err != nil {
		return total, fmt.Errorf("cannot WriteTo: %w", err)
	}
	var verBuf [4]byte
	binary.BigEndian.PutUint32(verBuf[:], serializationVersion)
	if err = write(verBuf[:]); err != nil {
		return total, fmt.Errorf("cannot WriteTo: %w", err)
	}
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	if err = write(lenBuf[:]); err != nil {
		return total, fmt.Errorf("cannot WriteTo: %w", err)
	}
	if err = write(payload); err != nil {
		return total, fmt.Errorf("cannot WriteTo: %w", err)
	}
	if err = write(digest[:]); err != nil {
		return total, fmt.Errorf("cannot WriteTo: %w", err)
	}
	if err = write(ctxtEndCatcher[:]); err != nil {
		return total, fmt.Errorf("cannot WriteTo: %w", err)
	}
	return total, nil
}

// ReadFrom deserializes into c, which must already have a Ring set (the
// Context is assumed shared out-of-band, per spec §3 "Lifecycle":
// assignment between ciphertexts under different contexts is forbidden).
func (c *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	var begin [8]byte
	var total int64
	read := func(b []byte) error {
		m, err := io.ReadFull(br, b)
		total += int64(m)
		return err
	}

	if err = read(begin[:]); err != nil {
		return total, fmt.Errorf("cannot ReadFrom: %w", ErrIO)
	}
	if begin != ctxtBeginCatcher {
		return total, fmt.Errorf("cannot ReadFrom: bad header eye-catcher: %w", ErrIO)
	}
	var verBuf [4]byte
	if err = read(verBuf[:]); err != nil {
		return total, fmt.Errorf("cannot ReadFrom: %w", ErrIO)
	}
	if binary.BigEndian.Uint32(verBuf[:]) != serializationVersion {
		return total, fmt.Errorf("cannot ReadFrom: unsupported version %d: %w", binary.BigEndian.Uint32(verBuf[:]), ErrIO)
	}
	var lenBuf [8]byte
	if err = read(lenBuf[:]); err != nil {
		return total, fmt.Errorf("cannot ReadFrom: %w", ErrIO)
	}
	payload := make([]byte, binary.BigEndian.Uint64(lenBuf[:]))
	if err = read(payload); err != nil {
		return total, fmt.Errorf("cannot ReadFrom: %w", ErrIO)
	}
	var digest [32]byte
	if err = read(digest[:]); err != nil {
		return total, fmt.Errorf("cannot ReadFrom: %w", ErrIO)
	}
	if blake3.Sum256(payload) != digest {
		return total, fmt.Errorf("cannot ReadFrom: payload digest mismatch: %w", ErrIO)
	}
	var end [8]byte
	if err = read(end[:]); err != nil {
		return total, fmt.Errorf("cannot ReadFrom: %w", ErrIO)
	}
	if end != ctxtEndCatcher {
		return total, fmt.Errorf("cannot ReadFrom: bad footer eye-catcher: %w", ErrIO)
	}

	if err = c.decodePayload(payload); err != nil {
		return total, fmt.Errorf("cannot ReadFrom: %w", err)
	}
	return total, nil
}

// MarshalBinary encodes c into a newly allocated slice of bytes.
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	var buf writerBuffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes p, generated by MarshalBinary or WriteTo, into c.
func (c *Ciphertext) UnmarshalBinary(p []byte) error {
	_, err := c.ReadFrom(bufio.NewReader(&readerBuffer{data: p}))
	return err
}

type writerBuffer struct{ b []byte }

func (w *writerBuffer) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}
func (w *writerBuffer) Bytes() []byte { return w.b }

type readerBuffer struct {
	data []byte
	pos  int
}

func (r *readerBuffer) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (c *Ciphertext) encodePayload() ([]byte, error) {
	var b []byte
	putU64 := func(v uint64) {
		var x [8]byte
		binary.BigEndian.PutUint64(x[:], v)
		b = append(b, x[:]...)
	}
	putInt := func(v int) { putU64(uint64(int64(v))) }
	putBig := func(f *big.Float) {
		if f == nil {
			b = append(b, 0)
			return
		}
		b = append(b, 1)
		s := f.Text('g', 40)
		putU64(uint64(len(s)))
		b = append(b, s...)
	}

	putInt(len(c.Parts))
	for _, p := range c.Parts {
		putInt(p.Handle.A)
		putInt(p.Handle.T)
		putInt(p.Handle.K)
		putInt(len(p.Value.Coeffs))
		for _, row := range p.Value.Coeffs {
			putInt(len(row))
			for _, v := range row {
				putU64(v)
			}
		}
	}
	putInt(len(c.PrimeSet))
	for _, idx := range c.PrimeSet {
		putInt(idx)
	}
	putU64(c.PtxtSpace)
	putU64(c.IntFactor)
	putBig(c.NoiseBound)
	putBig(c.RatFactor)
	putBig(c.PtxtMag)
	return b, nil
}

func (c *Ciphertext) decodePayload(b []byte) error {
	pos := 0
	readU64 := func() (uint64, error) {
		if pos+8 > len(b) {
			return 0, fmt.Errorf("truncated payload")
		}
		v := binary.BigEndian.Uint64(b[pos : pos+8])
		pos += 8
		return v, nil
	}
	readInt := func() (int, error) {
		v, err := readU64()
		return int(int64(v)), err
	}
	readBig := func() (*big.Float, error) {
		if pos >= len(b) {
			return nil, fmt.Errorf("truncated payload")
		}
		tag := b[pos]
		pos++
		if tag == 0 {
			return nil, nil
		}
		n, err := readU64()
		if err != nil {
			return nil, err
		}
		if pos+int(n) > len(b) {
			return nil, fmt.Errorf("truncated payload")
		}
		s := string(b[pos : pos+int(n)])
		pos += int(n)
		f, _, err := big.ParseFloat(s, 10, 200, big.ToNearestEven)
		return f, err
	}

	nParts, err := readInt()
	if err != nil {
		return err
	}
	parts := make([]CiphertextPart, nParts)
	for i := range parts {
		a, _ := readInt()
		t, _ := readInt()
		k, _ := readInt()
		nRows, _ := readInt()
		coeffs := make([][]uint64, nRows)
		for r := range coeffs {
			nCols, _ := readInt()
			row := make([]uint64, nCols)
			for j := range row {
				row[j], err = readU64()
				if err != nil {
					return err
				}
			}
			coeffs[r] = row
		}
		parts[i] = CiphertextPart{Handle: SkHandle{A: a, T: t, K: k}, Value: ringops.Poly{Coeffs: coeffs}}
	}
	nPs, _ := readInt()
	ps := make(ringops.PrimeSet, nPs)
	for i := range ps {
		ps[i], _ = readInt()
	}
	ptxtSpace, err := readU64()
	if err != nil {
		return err
	}
	intFactor, err := readU64()
	if err != nil {
		return err
	}
	noise, err := readBig()
	if err != nil {
		return err
	}
	rat, err := readBig()
	if err != nil {
		return err
	}
	mag, err := readBig()
	if err != nil {
		return err
	}

	c.Parts = parts
	c.PrimeSet = ps
	c.PtxtSpace = ptxtSpace
	c.IntFactor = intFactor
	if noise == nil {
		noise = big.NewFloat(0)
	}
	c.NoiseBound = noise
	c.RatFactor = rat
	c.PtxtMag = mag
	return nil
}
