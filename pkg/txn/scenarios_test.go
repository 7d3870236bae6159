package txn_test

import (
	"crypto/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/schema"
	"github.com/luxfi/coconut/pkg/service"
	"github.com/luxfi/coconut/pkg/txn"
)

// federation bundles a keygen result and a signing service
// per authority, enough to drive every scenario below end to end.
type federation struct {
	p        *params.Parameters
	vk       *coconut.VerifyKey
	sks      []coconut.SecretKeyShare
	services []*service.Service
}

func newFederation(n, m int) *federation {
	p, err := params.New(2)
	Expect(err).NotTo(HaveOccurred())
	sks, vks, err := coconut.Keygen(p, n, m, rand.Reader)
	Expect(err).NotTo(HaveOccurred())
	vk, err := coconut.AggregateVerifyKey(vks)
	Expect(err).NotTo(HaveOccurred())
	services := make([]*service.Service, n)
	for i, sk := range sks {
		services[i] = service.New(p, vk, sk)
	}
	return &federation{p: p, vk: vk, sks: sks, services: services}
}

// process runs tx through every authority, collecting each authority's
// shares as a row, then transposes rows into per-output columns and keeps
// the first m shares of each -- the minimum Aggregate needs.
func (f *federation) process(tx *txn.Transaction, m int) ([][]coconut.PartialSignature, error) {
	byAuthority := make([][]coconut.PartialSignature, len(f.services))
	for i, svc := range f.services {
		sigs, err := svc.Process(tx)
		if err != nil {
			return nil, err
		}
		row := make([]coconut.PartialSignature, len(tx.Outputs))
		for _, s := range sigs {
			row[s.OutputIndex] = s.Share
		}
		byAuthority[i] = row
	}

	byOutput := txn.Transpose(byAuthority)
	for j, col := range byOutput {
		if len(col) > m {
			byOutput[j] = col[:m]
		}
	}
	return byOutput, nil
}

// mint mints a token worth value through every authority in f,
// keeping m shares to unblind.
func (f *federation) mint(value uint64, m int) (*schema.Token, *schema.TokenSecret) {
	secret, err := schema.GenerateTokenSecret(f.p, value, rand.Reader)
	Expect(err).NotTo(HaveOccurred())
	out, os, err := schema.NewOutput(f.p, secret, rand.Reader)
	Expect(err).NotTo(HaveOccurred())

	tx := txn.New()
	tx.AddDeposit(value)
	_, outputBlinds, err := tx.ComputePedersens(nil, []uint64{value}, rand.Reader)
	Expect(err).NotTo(HaveOccurred())
	Expect(os.Setup(f.p, out, outputBlinds[0], rand.Reader)).To(Succeed())
	commits, err := os.ProofCommits(f.p, out)
	Expect(err).NotTo(HaveOccurred())
	hash := commits.Hash()
	os.Finish(out, schema.SubChallenge(hash))
	tx.AddOutput(out, hash)

	shares, err := f.process(tx, m)
	Expect(err).NotTo(HaveOccurred())
	token, err := os.Unblind(shares[0])
	Expect(err).NotTo(HaveOccurred())
	return token, secret
}

// withdraw builds a fully-proved transaction spending token/secret worth
// value back out to a transparent withdraw.
func (f *federation) withdraw(token *schema.Token, secret *schema.TokenSecret, value uint64) *txn.Transaction {
	in, is, err := schema.NewInput(f.p, f.vk, token, secret, rand.Reader)
	Expect(err).NotTo(HaveOccurred())

	tx := txn.New()
	tx.AddWithdraw(value)
	inputBlinds, _, err := tx.ComputePedersens([]uint64{value}, nil, rand.Reader)
	Expect(err).NotTo(HaveOccurred())
	Expect(is.Setup(f.p, in, inputBlinds[0], rand.Reader)).To(Succeed())
	commits, err := is.ProofCommits(f.p, f.vk, in)
	Expect(err).NotTo(HaveOccurred())
	hash := commits.Hash()
	tx.AddInput(in, hash)
	challenge := tx.ComputeChallenge()
	is.Finish(in, challenge)
	return tx
}

var _ = Describe("a coconut transaction", func() {
	var f *federation

	BeforeEach(func() {
		f = newFederation(3, 2)
	})

	Describe("minting a token from a deposit", func() {
		It("produces a credential that verifies against the federation's aggregate key", func() {
			secret, err := schema.GenerateTokenSecret(f.p, 100, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			out, os, err := schema.NewOutput(f.p, secret, rand.Reader)
			Expect(err).NotTo(HaveOccurred())

			tx := txn.New()
			tx.AddDeposit(100)
			_, outputBlinds, err := tx.ComputePedersens(nil, []uint64{100}, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Setup(f.p, out, outputBlinds[0], rand.Reader)).To(Succeed())
			commits, err := os.ProofCommits(f.p, out)
			Expect(err).NotTo(HaveOccurred())
			hash := commits.Hash()
			os.Finish(out, schema.SubChallenge(hash))
			tx.AddOutput(out, hash)
			Expect(tx.Check(f.p)).To(BeTrue())

			shares, err := f.process(tx, 2)
			Expect(err).NotTo(HaveOccurred())

			token, err := os.Unblind(shares[0])
			Expect(err).NotTo(HaveOccurred())

			attrs := []coconut.Attribute{
				coconut.NewAttribute(secret.Serial, 0),
				coconut.NewAttribute(curve.ScalarFromUint64(secret.Value), 1),
			}
			cred, _, err := coconut.BuildCredential(f.p, f.vk, *token.Signature, attrs, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			ok, err := coconut.Verify(f.p, f.vk, cred, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})
	})

	Describe("splitting a token into two outputs", func() {
		It("balances and every output unblinds into a spendable token", func() {
			token, secret := f.mint(100, 2)

			in, is, err := schema.NewInput(f.p, f.vk, token, secret, rand.Reader)
			Expect(err).NotTo(HaveOccurred())

			secretA, err := schema.GenerateTokenSecret(f.p, 70, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			outA, osA, err := schema.NewOutput(f.p, secretA, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			secretB, err := schema.GenerateTokenSecret(f.p, 30, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			outB, osB, err := schema.NewOutput(f.p, secretB, rand.Reader)
			Expect(err).NotTo(HaveOccurred())

			tx := txn.New()
			inputBlinds, outputBlinds, err := tx.ComputePedersens([]uint64{100}, []uint64{70, 30}, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			Expect(is.Setup(f.p, in, inputBlinds[0], rand.Reader)).To(Succeed())
			Expect(osA.Setup(f.p, outA, outputBlinds[0], rand.Reader)).To(Succeed())
			Expect(osB.Setup(f.p, outB, outputBlinds[1], rand.Reader)).To(Succeed())

			inCommits, err := is.ProofCommits(f.p, f.vk, in)
			Expect(err).NotTo(HaveOccurred())
			tx.AddInput(in, inCommits.Hash())

			commitsA, err := osA.ProofCommits(f.p, outA)
			Expect(err).NotTo(HaveOccurred())
			hashA := commitsA.Hash()
			osA.Finish(outA, schema.SubChallenge(hashA))
			tx.AddOutput(outA, hashA)

			commitsB, err := osB.ProofCommits(f.p, outB)
			Expect(err).NotTo(HaveOccurred())
			hashB := commitsB.Hash()
			osB.Finish(outB, schema.SubChallenge(hashB))
			tx.AddOutput(outB, hashB)

			challenge := tx.ComputeChallenge()
			is.Finish(in, challenge)
			Expect(tx.Check(f.p)).To(BeTrue())

			shares, err := f.process(tx, 2)
			Expect(err).NotTo(HaveOccurred())

			tokenA, err := osA.Unblind(shares[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(tokenA.Signature).NotTo(BeNil())
			tokenB, err := osB.Unblind(shares[1])
			Expect(err).NotTo(HaveOccurred())
			Expect(tokenB.Signature).NotTo(BeNil())
		})
	})

	Describe("withdrawing a token back to a transparent amount", func() {
		It("balances against the declared withdraw", func() {
			token, secret := f.mint(50, 2)
			tx := f.withdraw(token, secret, 50)
			Expect(tx.Check(f.p)).To(BeTrue())

			_, err := f.process(tx, 2)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("spending the same token twice", func() {
		It("is rejected by the authority that already accepted it on the second attempt", func() {
			token, secret := f.mint(40, 2)
			tx := f.withdraw(token, secret, 40)

			_, err := f.services[0].Process(tx)
			Expect(err).NotTo(HaveOccurred())

			_, err = f.services[0].Process(tx)
			Expect(err).To(MatchError(service.ErrTokenAlreadySpent))
		})
	})

	Describe("tampering with an output's committed amount after proving", func() {
		It("is rejected because the transaction's pedersen commitments no longer balance", func() {
			secret, err := schema.GenerateTokenSecret(f.p, 100, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			out, os, err := schema.NewOutput(f.p, secret, rand.Reader)
			Expect(err).NotTo(HaveOccurred())

			tx := txn.New()
			tx.AddDeposit(100)
			_, outputBlinds, err := tx.ComputePedersens(nil, []uint64{100}, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Setup(f.p, out, outputBlinds[0], rand.Reader)).To(Succeed())
			commits, err := os.ProofCommits(f.p, out)
			Expect(err).NotTo(HaveOccurred())
			hash := commits.Hash()
			os.Finish(out, schema.SubChallenge(hash))
			tx.AddOutput(out, hash)

			// Swap in a commitment to a different amount without redoing the proofs.
			out.Pedersen = f.p.PedersenCommit(curve.ScalarFromUint64(1), curve.ScalarFromUint64(1000))

			_, err = f.services[0].Process(tx)
			Expect(err).To(MatchError(service.ErrTransactionPedersenCheckFailed))
		})
	})

	Describe("forging a transaction's shared challenge", func() {
		It("is rejected because the input's proof no longer reconstructs the declared challenge", func() {
			token, secret := f.mint(40, 2)
			in, is, err := schema.NewInput(f.p, f.vk, token, secret, rand.Reader)
			Expect(err).NotTo(HaveOccurred())

			tx := txn.New()
			tx.AddWithdraw(40)
			inputBlinds, _, err := tx.ComputePedersens([]uint64{40}, nil, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			Expect(is.Setup(f.p, in, inputBlinds[0], rand.Reader)).To(Succeed())
			commits, err := is.ProofCommits(f.p, f.vk, in)
			Expect(err).NotTo(HaveOccurred())
			tx.AddInput(in, commits.Hash())

			forged := tx.ComputeChallenge().Add(curve.ScalarFromUint64(1))
			is.Finish(in, forged)
			tx.Challenge = forged

			_, err = f.services[0].Process(tx)
			Expect(err).To(MatchError(service.ErrProofsFailed))
		})
	})
})
