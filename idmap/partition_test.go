package idmap_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/toonarmy14/lxc-idmap-v2/idmap"
)

var _ = Describe("Partitioner", func() {
	var partitioner idmap.Partitioner

	BeforeEach(func() {
		partitioner = idmap.Partitioner{
			MaxID:      65536,
			FillerBase: 100000,
		}
	})

	It("covers the whole ID space with one filler when nothing is explicit", func() {
		records, err := partitioner.Partition(idmap.User, nil)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(records).Should(Equal([]idmap.RangeRecord{
			{Kind: idmap.Filler, ContainerStart: 0, HostStart: 100000, Length: 65536},
		}))
	})

	It("surrounds a single explicit mapping with fillers", func() {
		records, err := partitioner.Partition(idmap.User, []idmap.ExplicitMapping{
			{ContainerID: 1000, HostID: 1000},
		})
		Ω(err).ShouldNot(HaveOccurred())
		Ω(records).Should(Equal([]idmap.RangeRecord{
			{Kind: idmap.Filler, ContainerStart: 0, HostStart: 100000, Length: 1000},
			{Kind: idmap.Exact, ContainerStart: 1000, HostStart: 1000, Length: 1},
			{Kind: idmap.Filler, ContainerStart: 1001, HostStart: 101001, Length: 64535},
		}))
	})

	It("starts with an exact record when container ID 0 is explicit", func() {
		records, err := partitioner.Partition(idmap.User, []idmap.ExplicitMapping{
			{ContainerID: 0, HostID: 4000},
		})
		Ω(err).ShouldNot(HaveOccurred())
		Ω(records).Should(Equal([]idmap.RangeRecord{
			{Kind: idmap.Exact, ContainerStart: 0, HostStart: 4000, Length: 1},
			{Kind: idmap.Filler, ContainerStart: 1, HostStart: 100001, Length: 65535},
		}))
	})

	It("ends with an exact record when the last ID is explicit", func() {
		records, err := partitioner.Partition(idmap.User, []idmap.ExplicitMapping{
			{ContainerID: 65535, HostID: 4000},
		})
		Ω(err).ShouldNot(HaveOccurred())
		Ω(records).Should(Equal([]idmap.RangeRecord{
			{Kind: idmap.Filler, ContainerStart: 0, HostStart: 100000, Length: 65535},
			{Kind: idmap.Exact, ContainerStart: 65535, HostStart: 4000, Length: 1},
		}))
	})

	It("emits no filler between adjacent explicit mappings", func() {
		records, err := partitioner.Partition(idmap.User, []idmap.ExplicitMapping{
			{ContainerID: 5, HostID: 50},
			{ContainerID: 6, HostID: 60},
		})
		Ω(err).ShouldNot(HaveOccurred())
		Ω(records).Should(Equal([]idmap.RangeRecord{
			{Kind: idmap.Filler, ContainerStart: 0, HostStart: 100000, Length: 5},
			{Kind: idmap.Exact, ContainerStart: 5, HostStart: 50, Length: 1},
			{Kind: idmap.Exact, ContainerStart: 6, HostStart: 60, Length: 1},
			{Kind: idmap.Filler, ContainerStart: 7, HostStart: 100007, Length: 65529},
		}))
	})

	It("sorts explicit mappings before partitioning", func() {
		shuffled, err := partitioner.Partition(idmap.User, []idmap.ExplicitMapping{
			{ContainerID: 564, HostID: 812},
			{ContainerID: 444, HostID: 1230},
		})
		Ω(err).ShouldNot(HaveOccurred())

		sorted, err := partitioner.Partition(idmap.User, []idmap.ExplicitMapping{
			{ContainerID: 444, HostID: 1230},
			{ContainerID: 564, HostID: 812},
		})
		Ω(err).ShouldNot(HaveOccurred())

		Ω(shuffled).Should(Equal(sorted))
	})

	It("rejects container IDs at or beyond the ID-space maximum", func() {
		_, err := partitioner.Partition(idmap.Group, []idmap.ExplicitMapping{
			{ContainerID: 65536, HostID: 65536},
		})
		Ω(err).Should(Equal(idmap.OutOfRangeError{
			Namespace:   idmap.Group,
			ContainerID: 65536,
			MaxID:       65536,
		}))
		Ω(err).Should(MatchError("group container ID 65536 is outside the ID space [0, 65536)"))
	})

	Describe("the worked scenario", func() {
		var users, groups []idmap.RangeRecord

		BeforeEach(func() {
			// lxc-idmap 564:564=812 -u 444=1230 -g 909 -g 7777
			var err error
			users, err = partitioner.Partition(idmap.User, []idmap.ExplicitMapping{
				{ContainerID: 444, HostID: 1230},
				{ContainerID: 564, HostID: 812},
			})
			Ω(err).ShouldNot(HaveOccurred())

			groups, err = partitioner.Partition(idmap.Group, []idmap.ExplicitMapping{
				{ContainerID: 564, HostID: 812},
				{ContainerID: 909, HostID: 909},
				{ContainerID: 7777, HostID: 7777},
			})
			Ω(err).ShouldNot(HaveOccurred())
		})

		It("produces the expected user partition", func() {
			Ω(users).Should(Equal([]idmap.RangeRecord{
				{Kind: idmap.Filler, ContainerStart: 0, HostStart: 100000, Length: 444},
				{Kind: idmap.Exact, ContainerStart: 444, HostStart: 1230, Length: 1},
				{Kind: idmap.Filler, ContainerStart: 445, HostStart: 100445, Length: 119},
				{Kind: idmap.Exact, ContainerStart: 564, HostStart: 812, Length: 1},
				{Kind: idmap.Filler, ContainerStart: 565, HostStart: 100565, Length: 64971},
			}))
		})

		It("produces the expected group partition", func() {
			Ω(groups).Should(Equal([]idmap.RangeRecord{
				{Kind: idmap.Filler, ContainerStart: 0, HostStart: 100000, Length: 564},
				{Kind: idmap.Exact, ContainerStart: 564, HostStart: 812, Length: 1},
				{Kind: idmap.Filler, ContainerStart: 565, HostStart: 100565, Length: 344},
				{Kind: idmap.Exact, ContainerStart: 909, HostStart: 909, Length: 1},
				{Kind: idmap.Filler, ContainerStart: 910, HostStart: 100910, Length: 6867},
				{Kind: idmap.Exact, ContainerStart: 7777, HostStart: 7777, Length: 1},
				{Kind: idmap.Filler, ContainerStart: 7778, HostStart: 107778, Length: 57758},
			}))
		})

		It("partitions the whole ID space with no gaps or overlaps", func() {
			for _, records := range [][]idmap.RangeRecord{users, groups} {
				cursor := 0
				for _, record := range records {
					Ω(record.ContainerStart).Should(Equal(cursor))
					Ω(record.Length).Should(BeNumerically(">", 0))
					if record.Kind == idmap.Exact {
						Ω(record.Length).Should(Equal(1))
					}
					cursor += record.Length
				}
				Ω(cursor).Should(Equal(65536))
			}
		})

		It("keeps filler host ranges clear of every other host range", func() {
			for _, records := range [][]idmap.RangeRecord{users, groups} {
				for i, a := range records {
					for j, b := range records {
						if i == j {
							continue
						}
						overlaps := a.HostStart < b.HostStart+b.Length &&
							b.HostStart < a.HostStart+a.Length
						Ω(overlaps).Should(BeFalse())
					}
				}
			}
		})
	})
})
