package ringops

import "math/big"

func mulModBig(a, b, q uint64) uint64 {
	var x, y, m big.Int
	x.SetUint64(a)
	y.SetUint64(b)
	m.SetUint64(q)
	x.Mul(&x, &y)
	x.Mod(&x, &m)
	return x.Uint64()
}
