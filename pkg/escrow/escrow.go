package escrow

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
)

// SegmentBits is the size of each plaintext segment the backed-up scalar is
// split into.
const SegmentBits = 8

// NumSegments is the number of segments a 256-bit scalar decomposes into.
const NumSegments = 32

// segmentBound is the number of distinct values a segment can take, and so
// the brute-force search space Recover walks per segment.
const segmentBound = 1 << SegmentBits

// Segment is one byte's worth of x2, ElGamal-encrypted under the escrow
// public key Y: D = k*G, E = m*G + k*Y.
type Segment struct {
	D *curvemath.Point `json:"d"`
	E *curvemath.Point `json:"e"`
}

// Proof is a Chaum-Pedersen proof that the aggregate of the backup's
// segments decrypts to the discrete log of X2, tying D_agg = K*G and
// E_agg - X2 = K*Y to the same witness K without revealing K or any segment.
type Proof struct {
	T1 *curvemath.Point  `json:"t1"`
	T2 *curvemath.Point  `json:"t2"`
	S  *curvemath.Scalar `json:"s"`
}

// Backup is the verifiable escrow backup of a key share: one ElGamal
// ciphertext per byte segment plus the aggregate NIZK proof.
type Backup struct {
	Y        *curvemath.Point `json:"y"`
	Segments []Segment        `json:"segments"`
	Proof    *Proof           `json:"proof"`
}

// segmentsOf splits x2 into NumSegments little-endian SegmentBits-wide
// values, most significant byte last.
func segmentsOf(x2 *curvemath.Scalar) [NumSegments]*big.Int {
	var out [NumSegments]*big.Int
	b := x2.Bytes() // 32-byte big-endian
	for i := 0; i < NumSegments; i++ {
		out[i] = new(big.Int).SetBytes([]byte{b[len(b)-1-i]})
	}
	return out
}

// weight returns 256^i mod Order, the place value of segment i.
func weight(i int) *big.Int {
	return new(big.Int).Exp(big.NewInt(segmentBound), big.NewInt(int64(i)), curvemath.Order)
}

// Backup encrypts x2's byte segments under escrow public key Y and attaches
// a NIZK proving the segments aggregate to the discrete log of X2 = x2*G.
func Backup(x2 *curvemath.Scalar, Y *curvemath.Point) (*Backup, error) {
	if x2 == nil || Y == nil {
		return nil, errors.New("escrow: nil share or escrow key")
	}
	ms := segmentsOf(x2)
	segs := make([]Segment, NumSegments)

	kAgg := curvemath.Zero()
	for i := 0; i < NumSegments; i++ {
		k, err := curvemath.RandomScalar()
		if err != nil {
			return nil, err
		}
		m := curvemath.NewScalar(ms[i])
		segs[i] = Segment{
			D: curvemath.ScalarBaseMult(k),
			E: curvemath.ScalarBaseMult(m).Add(Y.ScalarMult(k)),
		}
		kAgg = kAgg.Add(curvemath.NewScalar(weight(i)).Mul(k))
	}

	X2 := curvemath.ScalarBaseMult(x2)
	proof, err := proveAggregate(segs, X2, Y, kAgg)
	if err != nil {
		return nil, err
	}
	return &Backup{Y: Y, Segments: segs, Proof: proof}, nil
}

// aggregate folds a backup's segments into D_agg = sum(256^i * D_i) and
// E_agg = sum(256^i * E_i), the public values the Chaum-Pedersen proof runs
// against.
func aggregate(segs []Segment) (dAgg, eAgg *curvemath.Point) {
	dAgg, eAgg = curvemath.Infinity(), curvemath.Infinity()
	for i, s := range segs {
		w := curvemath.NewScalar(weight(i))
		dAgg = dAgg.Add(s.D.ScalarMult(w))
		eAgg = eAgg.Add(s.E.ScalarMult(w))
	}
	return dAgg, eAgg
}

func proveAggregate(segs []Segment, X2, Y *curvemath.Point, kAgg *curvemath.Scalar) (*Proof, error) {
	dAgg, eAgg := aggregate(segs)

	rho, err := curvemath.RandomScalar()
	if err != nil {
		return nil, err
	}
	t1 := curvemath.ScalarBaseMult(rho)
	t2 := Y.ScalarMult(rho)
	e := escrowChallenge(dAgg, eAgg, X2, t1, t2)
	s := rho.Add(e.Mul(kAgg))
	return &Proof{T1: t1, T2: t2, S: s}, nil
}

// Verify checks that a Backup's segments aggregate to the discrete log of
// X2, without needing the escrow private key.
func Verify(b *Backup, X2 *curvemath.Point) error {
	if b == nil || b.Proof == nil || len(b.Segments) != NumSegments {
		return errors.New("escrow: malformed backup")
	}
	dAgg, eAgg := aggregate(b.Segments)
	target := eAgg.Sub(X2)
	e := escrowChallenge(dAgg, eAgg, X2, b.Proof.T1, b.Proof.T2)

	lhs1 := curvemath.ScalarBaseMult(b.Proof.S)
	rhs1 := b.Proof.T1.Add(dAgg.ScalarMult(e))
	if !lhs1.Equal(rhs1) {
		return errors.New("escrow: backup proof failed (G relation)")
	}
	lhs2 := b.Y.ScalarMult(b.Proof.S)
	rhs2 := b.Proof.T2.Add(target.ScalarMult(e))
	if !lhs2.Equal(rhs2) {
		return errors.New("escrow: backup proof failed (Y relation)")
	}
	return nil
}

// Recover decrypts a Backup back into the original scalar using the escrow
// private key. Each segment is recovered by brute-forcing the 256 possible
// byte values, which is only feasible because SegmentBits is small.
//
// Recover is implemented for completeness but is not exposed through any
// server endpoint; see DESIGN.md.
func Recover(b *Backup, escrowPriv *curvemath.Scalar) (*curvemath.Scalar, error) {
	if b == nil || len(b.Segments) != NumSegments {
		return nil, errors.New("escrow: malformed backup")
	}
	out := make([]byte, NumSegments)
	table := make(map[string]byte, segmentBound)
	for v := 0; v < segmentBound; v++ {
		p := curvemath.ScalarBaseMult(curvemath.NewScalar(big.NewInt(int64(v))))
		table[p.HexString()] = byte(v)
	}
	for i, seg := range b.Segments {
		m := seg.E.Sub(seg.D.ScalarMult(escrowPriv))
		v, ok := table[m.HexString()]
		if !ok {
			return nil, errors.New("escrow: segment recovery failed, value out of range")
		}
		out[NumSegments-1-i] = v
	}
	return curvemath.ScalarFromBytes(out), nil
}

func escrowChallenge(dAgg, eAgg, X2, t1, t2 *curvemath.Point) *curvemath.Scalar {
	h := sha256.New()
	h.Write([]byte("gotham/escrow/aggregate"))
	h.Write(dAgg.Bytes())
	h.Write(eAgg.Bytes())
	h.Write(X2.Bytes())
	h.Write(t1.Bytes())
	h.Write(t2.Bytes())
	return curvemath.HashToScalar(h.Sum(nil))
}
