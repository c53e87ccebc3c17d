package pcg

// Multipliers from the published PCG parameter tables. They are shared by
// every generator of a given state width and are not configurable.
const (
	Multiplier64 = 6364136223846793005
)

// Multiplier128 is the 128-bit LCG multiplier,
// 0x2360ed051fc65da44385df649fccf645.
var Multiplier128 = Uint128{Hi: 0x2360ed051fc65da4, Lo: 0x4385df649fccf645}

// step64 performs one LCG step: state*Multiplier64 + inc mod 2^64.
func step64(state, inc uint64) uint64 {
	return state*Multiplier64 + inc
}

// advance64 returns the state reached after delta steps without visiting
// the intermediate states. It folds delta one bit at a time, squaring the
// step's (multiplier, increment) pair as it goes, so the cost is O(log delta).
func advance64(state, inc, delta uint64) uint64 {
	accMul, accInc := uint64(1), uint64(0)
	curMul, curInc := uint64(Multiplier64), inc
	for delta != 0 {
		if delta&1 != 0 {
			accMul *= curMul
			accInc = accInc*curMul + curInc
		}
		curInc *= curMul + 1
		curMul *= curMul
		delta >>= 1
	}
	return accMul*state + accInc
}

func step128(state, inc Uint128) Uint128 {
	return state.Mul(Multiplier128).Add(inc)
}

func advance128(state, inc, delta Uint128) Uint128 {
	one := Uint128{Lo: 1}
	accMul, accInc := one, Uint128{}
	curMul, curInc := Multiplier128, inc
	for !delta.IsZero() {
		if delta.Odd() {
			accMul = accMul.Mul(curMul)
			accInc = accInc.Mul(curMul).Add(curInc)
		}
		curInc = curInc.Mul(curMul.Add(one))
		curMul = curMul.Mul(curMul)
		delta = delta.Rsh(1)
	}
	return accMul.Mul(state).Add(accInc)
}

// seed64 derives the initial state and increment for a seed and stream.
// The increment is forced odd, and one step is applied to seed+inc so that
// small seeds do not start on a degenerate state.
func seed64(seed, stream uint64) (state, inc uint64) {
	inc = stream<<1 | 1
	return step64(seed+inc, inc), inc
}

func seed128(seed, stream Uint128) (state, inc Uint128) {
	inc = stream.Lsh(1)
	inc.Lo |= 1
	return step128(seed.Add(inc), inc), inc
}
