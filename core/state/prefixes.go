package state

import (
	"encoding/binary"
	"encoding/hex"
)

var (
	accountPrefix      = []byte("accounts/")
	remitRecordPrefix  = []byte("remit/record/")
	remitContribPrefix = []byte("remit/contrib/")
	remitRosterPrefix  = []byte("remit/roster/")
	remitCounterKey    = []byte("remit/counter")
	remitFeeBpsKey     = []byte("remit/params/feebps")
	pausePrefix        = []byte("pause/")
	rateQuotePrefix    = []byte("rates/quote/")
	rateUpdaterPrefix  = []byte("rates/updater/")
)

func accountKey(addr []byte) []byte {
	return append(append([]byte(nil), accountPrefix...), hex.EncodeToString(addr)...)
}

func remitRecordKey(id uint64) []byte {
	buf := make([]byte, len(remitRecordPrefix)+8)
	copy(buf, remitRecordPrefix)
	binary.BigEndian.PutUint64(buf[len(remitRecordPrefix):], id)
	return buf
}

func remitContribKey(id uint64, contributor [20]byte) []byte {
	buf := make([]byte, 0, len(remitContribPrefix)+8+1+40)
	buf = append(buf, remitContribPrefix...)
	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], id)
	buf = append(buf, idBytes[:]...)
	buf = append(buf, '/')
	buf = append(buf, hex.EncodeToString(contributor[:])...)
	return buf
}

func remitRosterKey(id uint64) []byte {
	buf := make([]byte, len(remitRosterPrefix)+8)
	copy(buf, remitRosterPrefix)
	binary.BigEndian.PutUint64(buf[len(remitRosterPrefix):], id)
	return buf
}

func pauseKey(module string) []byte {
	return append(append([]byte(nil), pausePrefix...), module...)
}

func rateQuoteKey(pair string) []byte {
	return append(append([]byte(nil), rateQuotePrefix...), pair...)
}

func rateUpdaterKey(updater [20]byte) []byte {
	return append(append([]byte(nil), rateUpdaterPrefix...), hex.EncodeToString(updater[:])...)
}
