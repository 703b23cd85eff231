package iblt

import "github.com/kmersync/kiblt/kiblterr"

// Insert adds key to the table. key must be exactly PayloadLen()
// bytes, right-aligned with any pad bits zero.
func (b *IBLT) Insert(key []byte) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := b.checkKeyLen(key); err != nil {
		return err
	}
	b.touch(key, 1)
	b.insertedCount++
	b.state = statePopulated
	return nil
}

// Remove subtracts key from the table. Same shape requirement as Insert.
func (b *IBLT) Remove(key []byte) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := b.checkKeyLen(key); err != nil {
		return err
	}
	b.touch(key, 3) // -1 mod 4
	b.insertedCount--
	b.state = statePopulated
	return nil
}

// touch XORs key's payload and code into every row and bumps that
// row's counter by delta (1 for insert, 3 for remove).
func (b *IBLT) touch(key []byte, delta uint8) {
	for i := 0; i < int(b.r); i++ {
		idx, code := b.rowHash(key, i)
		b.addCountAt(idx, delta)
		b.xorInto(idx, code, key)
	}
}

func (b *IBLT) checkMutable() error {
	if b.state == statePeeled || b.state == stateExhausted {
		return kiblterr.New(kiblterr.CodeExhausted, "iblt: cannot mutate a peeled or exhausted table")
	}
	return nil
}

func (b *IBLT) checkKeyLen(key []byte) error {
	if uint32(len(key)) != b.payloadLen {
		return kiblterr.New(kiblterr.CodeInvalidParams, "iblt: key length does not match configured k")
	}
	return nil
}

// Subtract subtracts other from b in place: b := b - other. Both
// tables must have been constructed with identical parameters.
func (b *IBLT) Subtract(other *IBLT) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := b.compatibleWith(other); err != nil {
		return err
	}

	for i := range b.counts {
		b.counts[i] = subCountByte(b.counts[i], other.counts[i])
	}
	for i := range b.buckets {
		b.buckets[i] ^= other.buckets[i]
	}

	if b.insertedCount >= other.insertedCount {
		b.insertedCount -= other.insertedCount
	} else {
		b.insertedCount = other.insertedCount - b.insertedCount
	}
	b.state = statePopulated
	return nil
}

func (b *IBLT) compatibleWith(other *IBLT) error {
	if b.k != other.k || b.r != other.r || b.n != other.n || b.seed != other.seed ||
		b.numBuckets != other.numBuckets || b.bucketSize != other.bucketSize ||
		len(b.counts) != len(other.counts) || len(b.buckets) != len(other.buckets) {
		return kiblterr.New(kiblterr.CodeIncompatible, "iblt: tables were built with different parameters")
	}
	return nil
}

// isPeelable reports whether bucket idx (row i) currently holds
// exactly one surviving entry, and if so returns its code and payload.
func (b *IBLT) isPeelable(idx uint64, i int) (ok bool, count uint8, code uint64, payload []byte) {
	count = b.countAt(idx)
	if count != 1 && count != 3 {
		return false, count, 0, nil
	}
	b.unpack(idx, &code, b.payloadBuf)
	idxCheck, codeCheck := b.rowHash(b.payloadBuf, i)
	if idxCheck != idx || codeCheck != code {
		return false, count, 0, nil
	}
	out := make([]byte, b.payloadLen)
	copy(out, b.payloadBuf)
	return true, count, code, out
}

// rowOf returns the row a bucket index belongs to.
func (b *IBLT) rowOf(idx uint64) int { return int(idx / b.chunk) }

// List peels the table, appending recovered keys to positives (count
// 1, i.e. present only in the minuend of a prior Subtract) or
// negatives (count 3). It mutates the table to a terminal state: the
// returned Outcome additionally reflects residual buckets left behind.
func (b *IBLT) List() (positives, negatives [][]byte, outcome Outcome, err error) {
	if err := b.checkMutable(); err != nil {
		return nil, nil, OutcomeNone, err
	}

	budget := 2 * b.n
	var peeled uint64
	var resumeFrom uint64
	haveResume := false

	for {
		if peeled > budget {
			outcome = OutcomeInfiniteLoop
			break
		}

		var idx uint64
		found := false
		if haveResume {
			if ok, _, _, _ := b.isPeelable(resumeFrom, b.rowOf(resumeFrom)); ok {
				idx, found = resumeFrom, true
			}
			haveResume = false
		}
		if !found {
			for cand := uint64(0); cand < b.numBuckets; cand++ {
				if ok, _, _, _ := b.isPeelable(cand, b.rowOf(cand)); ok {
					idx, found = cand, true
					break
				}
			}
		}
		if !found {
			outcome = b.classifyResidual()
			break
		}

		row := b.rowOf(idx)
		ok, count, code, payload := b.isPeelable(idx, row)
		if !ok {
			continue
		}
		if count == 1 {
			positives = append(positives, payload)
		} else {
			negatives = append(negatives, payload)
		}

		var delta uint8
		if count == 1 {
			delta = 3 // opposite of insert is decrement
		} else {
			delta = 1 // opposite of remove is increment
		}

		haveResume = false
		for i := 0; i < int(b.r); i++ {
			rIdx, rCode := b.rowHash(payload, i)
			wasPeelableBefore := b.countAt(rIdx) == 1 || b.countAt(rIdx) == 3
			b.addCountAt(rIdx, delta)
			b.xorInto(rIdx, rCode, payload)
			isPeelableNow := b.countAt(rIdx) == 1 || b.countAt(rIdx) == 3
			if !wasPeelableBefore && isPeelableNow && !haveResume && rIdx != idx {
				resumeFrom = rIdx
				haveResume = true
			}
		}

		peeled++
	}

	if outcome == OutcomeNone {
		b.state = statePeeled
	} else {
		b.state = stateExhausted
	}
	return positives, negatives, outcome, nil
}

// classifyResidual scans the count array once peeling has stalled and
// decides which terminal Outcome applies.
func (b *IBLT) classifyResidual() Outcome {
	var oneOrThree, two bool
	for idx := uint64(0); idx < b.numBuckets; idx++ {
		switch b.countAt(idx) {
		case 1, 3:
			oneOrThree = true
		case 2:
			two = true
		}
	}
	switch {
	case oneOrThree:
		return OutcomeUnpeelable
	case two:
		return OutcomeAsymmetric
	default:
		return OutcomeNone
	}
}
